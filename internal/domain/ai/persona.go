package ai

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// GreetingPrompt is sent, hidden, when a chat window opens.
const GreetingPrompt = "Introduce yourself and welcome the user to the portfolio."

//go:embed persona.txt
var persona string

//go:embed resume.yaml
var resumeYAML []byte

var systemInstruction = sync.OnceValues(func() (string, error) {
	var resume any
	if err := yaml.Unmarshal(resumeYAML, &resume); err != nil {
		return "", fmt.Errorf("failed to parse resume: %w", err)
	}
	data, err := sonic.ConfigStd.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode resume: %w", err)
	}
	return persona + string(data), nil
})

// SystemInstruction is the chat persona followed by the resume as JSON.
func SystemInstruction() string {
	s, err := systemInstruction()
	if err != nil {
		return persona
	}
	return s
}
