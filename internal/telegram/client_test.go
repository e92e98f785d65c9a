package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"Hello_World", "Hello\\_World"},
		{"Test*bold*", "Test\\*bold\\*"},
		{"Price: $100.50", "Price: $100\\.50"},
		{"[link](url)", "\\[link\\]\\(url\\)"},
		{"~strikethrough~", "\\~strikethrough\\~"},
		{"`code`", "\\`code\\`"},
		{">blockquote", "\\>blockquote"},
		{"#header", "\\#header"},
		{"+plus-minus", "\\+plus\\-minus"},
		{"=equal|pipe", "\\=equal\\|pipe"},
		{"{brace}", "\\{brace\\}"},
		{"end!", "end\\!"},
		{"", ""},
		{"_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeMarkdownV2(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatAlert(t *testing.T) {
	a := models.Alert{
		Key:      models.MatchKey{Date: "2025-10-28", Home: "arsenal", Away: "chelsea"},
		League:   "Premier League",
		Date:     "28 Oct",
		Time:     "20:00",
		Home:     "Arsenal FC",
		Away:     "Chelsea",
		Outcome:  models.OutcomeHome,
		SmartPct: 92.0,
		DropPct:  9.0,
	}

	msg := formatAlert(a)

	for _, want := range []string{
		"Arsenal FC vs Chelsea",
		"Premier League",
		"Sign *1*",
		"92\\.0%",
		"9\\.0%",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("formatAlert missing %q in:\n%s", want, msg)
		}
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	// NewClient with non-numeric chatID should return an error
	// Note: This test exercises the chat ID parsing error path
	// The bot token validation happens first (network call), so we use a clearly
	// invalid format to test the error handling flow
	_, err := NewClient("", "not-a-number", 3, time.Second)
	if err == nil {
		t.Error("Expected error for invalid chat ID, got nil")
	}
}
