package match

import (
	"testing"

	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

func TestMatch_Involves(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeam: team.Team{ID: "ger"}, AwayTeam: team.Team{ID: "sco"}}
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "home then away", a: "ger", b: "sco", want: true},
		{name: "away then home", a: "sco", b: "ger", want: true},
		{name: "one side only", a: "ger", b: "hun", want: false},
		{name: "same team twice", a: "ger", b: "ger", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.Involves(tt.a, tt.b); got != tt.want {
				t.Fatalf("Involves(%q, %q)=%v want=%v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
