// Package prompt models the structured design brief handed to image
// providers: the typed document, its canonical serializations, the
// dot-path assembly used by the resolution engine, and schema validation.
package prompt

// Document is the full design brief. Every leaf the resolution engine can
// write is addressable by the dot-path formed from the json tags
// (e.g. "visual_style.shading", "print_spec.px_size.width").
type Document struct {
	DesignTitle    string          `json:"design_title"`
	ImagePurpose   string          `json:"image_purpose"`
	Text           TextSpec        `json:"text"`
	Subject        []string        `json:"subject"`
	Composition    CompositionSpec `json:"composition"`
	VisualStyle    VisualStyleSpec `json:"visual_style"`
	Color          ColorSpec       `json:"color"`
	IconsSymbols   []string        `json:"icons_symbols"`
	Background     BackgroundSpec  `json:"background"`
	PrintSpec      PrintSpec       `json:"print_spec"`
	Output         OutputSpec      `json:"output"`
	References     ReferencesSpec  `json:"references"`
	Constraints    ConstraintsSpec `json:"constraints"`
	NegativePrompt string          `json:"negative_prompt"`
}

type TextSpec struct {
	Primary       string   `json:"primary"`
	Secondary     string   `json:"secondary"`
	Layout        string   `json:"layout"`
	FontVibe      []string `json:"font_vibe"`
	TextTreatment []string `json:"text_treatment"`
}

type CompositionSpec struct {
	Style          []string `json:"style"`
	Framing        string   `json:"framing"`
	Perspective    string   `json:"perspective"`
	Balance        string   `json:"balance"`
	PaddingPercent int      `json:"padding_percent"`
}

type VisualStyleSpec struct {
	GenreTags    []string `json:"genre_tags"`
	LineWeightPx int      `json:"line_weight_px"`
	DetailLevel  string   `json:"detail_level"`
	Shading      string   `json:"shading"`
	Texture      string   `json:"texture"`
	Finish       string   `json:"finish"`
}

type ColorSpec struct {
	AllowGradients bool        `json:"allow_gradients"`
	GradientMap    GradientMap `json:"gradient_map"`
}

type GradientMap struct {
	Scheme    string   `json:"scheme"`
	ApplyTo   []string `json:"apply_to"`
	Reverse   bool     `json:"reverse"`
	ClipBlack float64  `json:"clip_black"`
	ClipWhite float64  `json:"clip_white"`
}

type BackgroundSpec struct {
	Type               string `json:"type"`
	DropShadow         string `json:"drop_shadow"`
	Halo               string `json:"halo"`
	BackgroundElements string `json:"background_elements"`
}

type PrintSpec struct {
	PxSize                     PxSize `json:"px_size"`
	DPITarget                  int    `json:"dpi_target"`
	SafeMarginPx               int    `json:"safe_margin_px"`
	StrokeOutlinePx            int    `json:"stroke_outline_px"`
	UseWhiteKeylineForStickers bool   `json:"use_white_keyline_for_stickers"`
}

type PxSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type OutputSpec struct {
	Format      string `json:"format"`
	Transparent bool   `json:"transparent"`
	NVariations int    `json:"n_variations"`
	Seed        int    `json:"seed"`
}

type ReferencesSpec struct {
	StyleRefs []string `json:"style_refs"`
	LogoRef   string   `json:"logo_ref"`
	ColorRef  []string `json:"color_ref"`
}

type ConstraintsSpec struct {
	NoPhotographicTextures bool `json:"no_photographic_textures"`
	NoRasterNoise          bool `json:"no_raster_noise"`
	NoBackgroundBox        bool `json:"no_background_box"`
	NoWatermarks           bool `json:"no_watermarks"`
	NoSmallIllegibleText   bool `json:"no_small_illegible_text"`
}

// DefaultFrame returns a document with the structurally fixed defaults.
// The resolution engine overwrites the creative leaves per key path.
func DefaultFrame() *Document {
	return &Document{
		ImagePurpose: "merch: t-shirt | hoodie | sticker | mug",
		Text: TextSpec{
			Layout:        "horizontal | stacked",
			FontVibe:      []string{},
			TextTreatment: []string{},
		},
		Subject: []string{},
		Composition: CompositionSpec{
			Style:          []string{},
			Framing:        "centered",
			Perspective:    "orthographic",
			Balance:        "symmetrical",
			PaddingPercent: 6,
		},
		VisualStyle: VisualStyleSpec{
			GenreTags:    []string{},
			LineWeightPx: 3,
			DetailLevel:  "medium-high",
			Shading:      "hatching/minimal",
			Texture:      "none",
			Finish:       "clean neon etching",
		},
		Color: ColorSpec{
			AllowGradients: true,
			GradientMap: GradientMap{
				Scheme:    "Inferno",
				ApplyTo:   []string{"strokes"},
				ClipBlack: 0.02,
			},
		},
		IconsSymbols: []string{},
		Background: BackgroundSpec{
			Type:               "transparent",
			DropShadow:         "none",
			Halo:               "none",
			BackgroundElements: "none",
		},
		PrintSpec: PrintSpec{
			PxSize:          PxSize{Width: 5400, Height: 4500},
			DPITarget:       300,
			SafeMarginPx:    150,
			StrokeOutlinePx: 10,
		},
		Output: OutputSpec{
			Format:      "png",
			Transparent: true,
			NVariations: 1,
			Seed:        427,
		},
		References: ReferencesSpec{
			StyleRefs: []string{},
			ColorRef:  []string{},
		},
		Constraints: ConstraintsSpec{
			NoPhotographicTextures: true,
			NoRasterNoise:          true,
			NoBackgroundBox:        true,
			NoWatermarks:           true,
			NoSmallIllegibleText:   true,
		},
	}
}
