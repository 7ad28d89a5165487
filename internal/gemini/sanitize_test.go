package gemini

import (
	"strings"
	"testing"
)

func TestSanitizeSummary_StripsLabelPrefix(t *testing.T) {
	out := SanitizeSummary("Summary: The council approved the new budget on Tuesday.")
	if strings.HasPrefix(strings.ToLower(out), "summary:") {
		t.Errorf("label prefix survived: %q", out)
	}
	if !strings.Contains(out, "council approved the new budget") {
		t.Errorf("content lost: %q", out)
	}
}

func TestSanitizeSummary_RemovesNoteLines(t *testing.T) {
	in := "The merger closed on Friday.\nNote: This summary was generated automatically and may contain errors.\nShares rose four percent."
	out := SanitizeSummary(in)
	if strings.Contains(strings.ToLower(out), "note:") {
		t.Errorf("note line survived: %q", out)
	}
	if !strings.Contains(out, "merger closed") || !strings.Contains(out, "Shares rose") {
		t.Errorf("content lines lost: %q", out)
	}
}

func TestSanitizeSummary_RemovesInlineNote(t *testing.T) {
	in := "The rocket launched at dawn. (Note: details unconfirmed) Recovery went as planned."
	out := SanitizeSummary(in)
	if strings.Contains(strings.ToLower(out), "note") {
		t.Errorf("inline note survived: %q", out)
	}
	if !strings.Contains(out, "Recovery went as planned") {
		t.Errorf("trailing content lost: %q", out)
	}
}

func TestSanitizeSummary_StripsCodeFencesAndBullets(t *testing.T) {
	in := "```\n- The talks resumed in Geneva.\n* Delegates expect a draft by Friday.\n```"
	out := SanitizeSummary(in)
	if strings.Contains(out, "```") {
		t.Errorf("code fence survived: %q", out)
	}
	if strings.Contains(out, "- The talks") || strings.HasPrefix(out, "-") {
		t.Errorf("bullet marker survived: %q", out)
	}
	if !strings.Contains(out, "talks resumed in Geneva") {
		t.Errorf("content lost: %q", out)
	}
}

func TestTruncateForPrompt_ShortTextUnchanged(t *testing.T) {
	in := "A short article body."
	if out := truncateForPrompt(in); out != in {
		t.Errorf("short text was altered: %q", out)
	}
}

func TestTruncateForPrompt_CutsLongTextAtSentence(t *testing.T) {
	sentence := "This sentence pads the article body with ordinary words. "
	in := strings.Repeat(sentence, 400)

	out := truncateForPrompt(in)
	if len([]rune(out)) > maxPromptChars+20 {
		t.Errorf("truncated text is %d runes, want about %d", len([]rune(out)), maxPromptChars)
	}
	if !strings.HasSuffix(out, "[TRUNCATED]") {
		t.Errorf("truncation marker missing: %q", out[len(out)-40:])
	}
}
