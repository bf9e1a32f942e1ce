package revision

import (
	"strings"
	"testing"

	"ContentPilot/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		comment  string
		selected string
		want     Intent
	}{
		{"link keyword", "please add a link to the source", "", IntentLink},
		{"href keyword", "the href looks broken", "", IntentLink},
		{"correction keyword", "fix this typo", "", IntentCorrection},
		{"malformed currency", "this number looks off", "$15,5006", IntentCorrection},
		{"removal keyword", "remove this sentence", "", IntentRemoval},
		{"addition keyword", "this section is missing examples", "", IntentAddition},
		{"generic", "this paragraph reads awkwardly", "", IntentGeneric},
		{"link beats correction", "fix the link to the report", "", IntentLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.comment, tt.selected); got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.comment, got, tt.want)
			}
		})
	}
}

func TestValidateRemoval(t *testing.T) {
	t.Parallel()

	original := `<p>Keep this.</p><p>This claim is unsupported.</p>`

	t.Run("removed text addressed", func(t *testing.T) {
		revised := `<p>Keep this.</p>`
		report := Validate(original, revised, []domain.FeedbackItem{{
			ID:           "f1",
			Comment:      "remove this sentence",
			SelectedText: "This claim is unsupported.",
		}})

		if report.Items[0].Status != domain.ValidationAddressed {
			t.Fatalf("status = %s, want addressed", report.Items[0].Status)
		}
		if !report.Success {
			t.Fatal("report with no failures must be successful")
		}
	})

	t.Run("still present fails", func(t *testing.T) {
		report := Validate(original, original, []domain.FeedbackItem{{
			ID:           "f1",
			Comment:      "remove this sentence",
			SelectedText: "This claim is unsupported.",
		}})

		if report.Items[0].Status != domain.ValidationFailed {
			t.Fatalf("status = %s, want failed", report.Items[0].Status)
		}
		if report.Success {
			t.Fatal("report with a failure must not be successful")
		}
	})

	t.Run("no selection is partial", func(t *testing.T) {
		report := Validate(original, original, []domain.FeedbackItem{{
			ID:      "f1",
			Comment: "delete the fluff",
		}})
		if report.Items[0].Status != domain.ValidationPartial {
			t.Fatalf("status = %s, want partial", report.Items[0].Status)
		}
	})
}

func TestValidateCorrection(t *testing.T) {
	t.Parallel()

	original := `<p>The fee is $15,5006 per year.</p>`

	t.Run("corrected", func(t *testing.T) {
		revised := `<p>The fee is $15,500 per year.</p>`
		report := Validate(original, revised, []domain.FeedbackItem{{
			ID:           "f1",
			Comment:      "number looks malformed",
			SelectedText: "$15,5006",
		}})
		if report.Items[0].Status != domain.ValidationAddressed {
			t.Fatalf("status = %s, want addressed", report.Items[0].Status)
		}
	})

	t.Run("not found in original is partial", func(t *testing.T) {
		report := Validate(original, original, []domain.FeedbackItem{{
			ID:           "f1",
			Comment:      "fix the typo",
			SelectedText: "text that never existed",
		}})
		if report.Items[0].Status != domain.ValidationPartial {
			t.Fatalf("status = %s, want partial", report.Items[0].Status)
		}
	})
}

func TestValidateLink(t *testing.T) {
	t.Parallel()

	original := `<p>See <a href="/a">first</a>.</p>`

	t.Run("new href addressed", func(t *testing.T) {
		revised := original + `<p>And <a href="/b">second</a>.</p>`
		report := Validate(original, revised, []domain.FeedbackItem{{
			ID:      "f1",
			Comment: "add a link to the pricing page",
		}})
		if report.Items[0].Status != domain.ValidationAddressed {
			t.Fatalf("status = %s, want addressed", report.Items[0].Status)
		}
	})

	t.Run("no new link fails", func(t *testing.T) {
		report := Validate(original, original, []domain.FeedbackItem{{
			ID:      "f1",
			Comment: "please cite a source url",
		}})
		if report.Items[0].Status != domain.ValidationFailed {
			t.Fatalf("status = %s, want failed", report.Items[0].Status)
		}
	})

	t.Run("ranking request needs ranking anchor", func(t *testing.T) {
		revised := original + `<p><a href="/pricing">pricing</a></p>`
		report := Validate(original, revised, []domain.FeedbackItem{{
			ID:      "f1",
			Comment: "link to the industry ranking",
		}})
		if report.Items[0].Status != domain.ValidationFailed {
			t.Fatalf("status = %s, want failed (no ranking link)", report.Items[0].Status)
		}

		revised = original + `<p><a href="/best-crm-ranking">2025 ranking</a></p>`
		report = Validate(original, revised, []domain.FeedbackItem{{
			ID:      "f1",
			Comment: "link to the industry ranking",
		}})
		if report.Items[0].Status != domain.ValidationAddressed {
			t.Fatalf("status = %s, want addressed", report.Items[0].Status)
		}
	})
}

func TestValidateAddition(t *testing.T) {
	t.Parallel()

	original := `<p>Short.</p>`

	report := Validate(original, original+`<p>More detail with examples.</p>`, []domain.FeedbackItem{{
		ID:      "f1",
		Comment: "add more examples",
	}})
	if report.Items[0].Status != domain.ValidationAddressed {
		t.Fatalf("status = %s, want addressed", report.Items[0].Status)
	}

	report = Validate(original, original, []domain.FeedbackItem{{
		ID:      "f1",
		Comment: "include a comparison table",
	}})
	if report.Items[0].Status != domain.ValidationPartial {
		t.Fatalf("status = %s, want partial", report.Items[0].Status)
	}
}

func TestValidateGeneric(t *testing.T) {
	t.Parallel()

	t.Run("paragraph rewrite addressed", func(t *testing.T) {
		original := `<p>Intro stays.</p><p>This section reads awkwardly here.</p><p>Outro stays.</p>`
		revised := `<p>Intro stays.</p><p>This section reads awkwardly here, and now carries substantially more explanation than before the edit pass ran.</p><p>Outro stays.</p>`
		report := Validate(original, revised, []domain.FeedbackItem{{
			ID:           "f1",
			Comment:      "rework this",
			SelectedText: "This section reads awkwardly here",
		}})
		if report.Items[0].Status != domain.ValidationAddressed {
			t.Fatalf("status = %s, want addressed", report.Items[0].Status)
		}
	})

	t.Run("no change is partial with warning", func(t *testing.T) {
		original := `<p>` + strings.Repeat("unchanged text ", 50) + `</p>`
		report := Validate(original, original, []domain.FeedbackItem{{
			ID:      "f1",
			Comment: "tighten the tone",
		}})
		item := report.Items[0]
		if item.Status != domain.ValidationPartial {
			t.Fatalf("status = %s, want partial", item.Status)
		}
		if len(item.Warnings) == 0 {
			t.Fatal("expected a manual-review warning")
		}
	})
}

func TestSummaryDeterministic(t *testing.T) {
	t.Parallel()

	original := `<p>Something to remove.</p>`
	items := []domain.FeedbackItem{
		{ID: "a", Comment: "remove this", SelectedText: "Something to remove."},
		{ID: "b", Comment: "add context"},
	}

	report := Validate(original, `<p>Expanded replacement text here.</p>`, items)
	want := "2 addressed, 0 partial, 0 failed of 2 feedback items"
	if report.Summary != want {
		t.Fatalf("summary = %q, want %q", report.Summary, want)
	}
}
