// README: Gemini-backed advisor producing JSON tips.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
)

const geminiModel = "gemini-2.0-flash"

var ErrEmptyResponse = errors.New("gemini: empty response")

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Gemini asks the model for eco-driving tips.
type Gemini struct {
	gen    textGenerator
	closer func() error
}

// NewGemini initializes a Gemini client; apiKey comes from GEMINI_API_KEY.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiModel)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.3)

	return &Gemini{gen: &genaiGenerator{model: model}, closer: client.Close}, nil
}

func (g *Gemini) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

type tipsResponse struct {
	Tips []string `json:"tips"`
}

func (g *Gemini) Advise(ctx context.Context, v vehicle.Vehicle, summaries []routing.Summary) ([]string, error) {
	raw, err := g.gen.GenerateText(ctx, buildPrompt(v, summaries))
	if err != nil {
		return nil, err
	}

	var resp tipsResponse
	clean := cleanJSONString(raw)
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, clean)
	}

	tips := resp.Tips[:0]
	for _, t := range resp.Tips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
	}
	if len(tips) == 0 {
		return nil, ErrEmptyResponse
	}
	return tips, nil
}

func buildPrompt(v vehicle.Vehicle, summaries []routing.Summary) string {
	var b strings.Builder
	b.WriteString(`Role: You are an eco-driving coach for a freight fleet.
Respond ONLY with JSON of the form {"tips": ["...", "..."]} containing at most 5 short, actionable tips.

Vehicle:
`)
	fmt.Fprintf(&b, "- type: %s\n- fuel: %s\n- fuel efficiency: %.1f km/L\n- load: %.0f of %.0f kg (%.0f%%)\n",
		v.Type, v.FuelType, v.FuelEfficiency, v.CurrentLoad, v.CargoCapacity, v.LoadFactor()*100)
	b.WriteString("\nPlanned legs:\n")
	for i, s := range summaries {
		fmt.Fprintf(&b, "%d. %.1f km, %.0f min, %.2f kg CO2, weather alert: %t, air quality alert: %t\n",
			i+1, s.TotalDistanceKm, s.TotalDurationMins, s.TotalEmissionsKg, s.WeatherAlerts, s.AirQualityAlerts)
	}
	return b.String()
}

type genaiGenerator struct {
	model *genai.GenerativeModel
}

func (g *genaiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return text.String(), nil
}

// cleanJSONString strips markdown fences the model sometimes adds.
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
