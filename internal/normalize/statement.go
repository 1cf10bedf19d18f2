package normalize

import "github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"

// Statement applies Text to a statement's text, both extra-field variants,
// and every cloze candidate, then recomputes the effective context. Cloze
// candidates are normalized identically to the statement text they index
// into so the cloze-is-substring invariant survives normalization.
func Statement(s *mksaptypes.Statement) {
	s.Text = Text(s.Text)

	if s.ExtraFieldVerbatim != nil {
		v := Text(*s.ExtraFieldVerbatim)
		s.ExtraFieldVerbatim = &v
	}
	if s.ExtraFieldEnhanced != nil {
		v := Text(*s.ExtraFieldEnhanced)
		s.ExtraFieldEnhanced = &v
	}

	for i, c := range s.ClozeCandidates {
		s.ClozeCandidates[i] = Text(c)
	}

	s.EffectiveContext()
}

// Statements normalizes every statement in place.
func Statements(statements []mksaptypes.Statement) {
	for i := range statements {
		Statement(&statements[i])
	}
}
