package types

// AppDescriptor is the registry record for one mini-application.
type AppDescriptor struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Icon        string `json:"icon" yaml:"icon"`
	DefaultSize Size   `json:"defaultSize" yaml:"size"`
	Desktop     bool   `json:"desktop" yaml:"desktop"`
	Content     string `json:"content" yaml:"content"`
}

// Cue names an audio cue played by the presentation layer.
type Cue string

const (
	CueOpen  Cue = "open"
	CueClick Cue = "click"
)
