package sequence

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"testing"
)

func repeatTeam(t Team, n int) []Team {
	out := make([]Team, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func layout(one, two, three int) []Team {
	out := repeatTeam(One, one)
	out = append(out, repeatTeam(Two, two)...)
	return append(out, repeatTeam(Three, three)...)
}

func TestIsLayoutStartable(t *testing.T) {
	for one := 0; one <= 5; one++ {
		for two := 0; two <= 5; two++ {
			for three := 0; three <= 5; three++ {
				sizes := []int{}
				for _, n := range []int{one, two, three} {
					if n > 0 {
						sizes = append(sizes, n)
					}
				}
				want := len(sizes) >= 2 && sizes[0] <= MaxTeamSize
				for _, n := range sizes {
					if n != sizes[0] {
						want = false
					}
				}
				if got := IsLayoutStartable(layout(one, two, three)); got != want {
					t.Errorf("IsLayoutStartable(%d,%d,%d) = %v, want %v", one, two, three, got, want)
				}
			}
		}
	}
}

func TestAssignNewPlayerTeam(t *testing.T) {
	tests := []struct {
		name  string
		teams []Team
		want  Team
	}{
		{"empty", nil, One},
		{"owner only", []Team{One}, Two},
		{"two teams even", []Team{One, Two}, Three},
		{"all even", []Team{One, Two, Three}, One},
		{"team two short", []Team{One, One, Two, Three, Three}, Two},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignNewPlayerTeam(tt.teams); got != tt.want {
				t.Errorf("expected team %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRebalanceSeatOrder(t *testing.T) {
	tests := []struct {
		name  string
		teams []Team
		want  []int
	}{
		{"two by two", []Team{One, One, Two, Two}, []int{0, 2, 1, 3}},
		{"three teams", []Team{Two, One, Three, One, Two, Three}, []int{1, 0, 2, 3, 4, 5}},
		{"uneven", []Team{One, One, One, Two}, []int{0, 3, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RebalanceSeatOrder(tt.teams); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShuffleTeamsKeepsSizes(t *testing.T) {
	teams := layout(3, 3, 3)
	got := ShuffleTeams(teams, rand.New(rand.NewPCG(7, 7)))

	if TeamSizes(got) != TeamSizes(teams) {
		t.Errorf("expected sizes %v, got %v", TeamSizes(teams), TeamSizes(got))
	}
	if !slices.Equal(teams, layout(3, 3, 3)) {
		t.Error("input slice was modified")
	}
}

func TestTeamJSON(t *testing.T) {
	b, _ := json.Marshal([]Team{NoTeam, One, Three})
	if string(b) != "[null,0,2]" {
		t.Fatalf("expected [null,0,2], got %s", b)
	}

	var back []Team
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !slices.Equal(back, []Team{NoTeam, One, Three}) {
		t.Errorf("expected round trip, got %v", back)
	}
}
