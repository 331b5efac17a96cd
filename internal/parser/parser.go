// Package parser turns free-text notes ("yesterday bought groceries 45.50")
// into structured transaction drafts using the Gemini API.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"nido/internal/core"
)

// Draft is a parsed transaction proposal. The caller still picks the user
// and resolves the baby name before anything is persisted.
type Draft struct {
	Amount   core.Money    `json:"amount"`
	Type     core.TxType   `json:"type"`
	Category core.Category `json:"category"`
	Note     string        `json:"note"`
	Date     time.Time     `json:"date"`
	DueDate  time.Time     `json:"due_date"`
	BabyName string        `json:"baby_name,omitempty"`
}

// Request is the raw material for a draft: free text, an attached
// receipt image, or both.
type Request struct {
	Text      string
	ImageData []byte
	ImageMIME string
}

type Parser struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, model string) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &Parser{client: client, model: model}, nil
}

// modelDraft is the shape the model is instructed to emit.
type modelDraft struct {
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Date     string `json:"date"`
	DueDate  string `json:"due_date"`
	BabyName string `json:"baby_name"`
}

func (p *Parser) Parse(ctx context.Context, req Request, now time.Time) (Draft, error) {
	input := strings.TrimSpace(req.Text)
	if input == "" && len(req.ImageData) == 0 {
		return Draft{}, fmt.Errorf("parse transaction: empty input")
	}
	if input == "" {
		input = "Extract the transaction from the attached receipt image."
	}

	parts := []*genai.Part{
		{Text: buildPrompt(input, now)},
	}
	if len(req.ImageData) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: mime, Data: req.ImageData},
		})
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: parts,
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return Draft{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Draft{}, fmt.Errorf("parse transaction: empty response from model")
	}

	return decodeDraft(rawText)
}

func decodeDraft(raw string) (Draft, error) {
	clean := cleanModelJSON(raw)

	var md modelDraft
	if err := json.Unmarshal([]byte(clean), &md); err != nil {
		return Draft{}, fmt.Errorf("unmarshal model output: %w", err)
	}

	cents, err := core.ParseDecimalToCents(md.Amount)
	if err != nil {
		return Draft{}, fmt.Errorf("model returned bad amount %q: %w", md.Amount, err)
	}

	txType := core.TxType(md.Type)
	switch txType {
	case core.TxIncome, core.TxExpense, core.TxDebt, core.TxRepayment:
	default:
		return Draft{}, fmt.Errorf("model returned unknown type %q", md.Type)
	}

	draft := Draft{
		Amount:   core.Money{Cents: cents},
		Type:     txType,
		Category: core.ParseCategory(md.Category),
		Note:     strings.TrimSpace(md.Note),
		BabyName: strings.TrimSpace(md.BabyName),
	}

	if md.Date != "" {
		draft.Date, err = time.Parse("2006-01-02", md.Date)
		if err != nil {
			return Draft{}, fmt.Errorf("model returned bad date %q: %w", md.Date, err)
		}
	}
	if md.DueDate != "" {
		draft.DueDate, err = time.Parse("2006-01-02", md.DueDate)
		if err != nil {
			return Draft{}, fmt.Errorf("model returned bad due date %q: %w", md.DueDate, err)
		}
	}

	return draft, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}' if junk remains.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
