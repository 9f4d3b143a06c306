package sequence

import (
	"math/rand/v2"
	"strconv"
)

// Team identifies one of the three team slots. NoTeam marks an unowned cell.
type Team int8

const (
	NoTeam Team = -1
	One    Team = 0
	Two    Team = 1
	Three  Team = 2
)

// TeamCount is the number of team slots.
const TeamCount = 3

// MaxTeamSize is the largest team a match may start with.
const MaxTeamSize = 4

func (t Team) Valid() bool { return t >= One && t <= Three }

func (t Team) String() string {
	if !t.Valid() {
		return "none"
	}
	return strconv.Itoa(int(t))
}

// MarshalJSON encodes NoTeam as null so clients see an unowned cell.
func (t Team) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(t))), nil
}

func (t *Team) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = NoTeam
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	*t = Team(n)
	return nil
}

// PartitionByTeam splits players into their teams, keeping input order.
func PartitionByTeam[P any](players []P, teamOf func(P) Team) [TeamCount][]P {
	var teams [TeamCount][]P
	for _, p := range players {
		if t := teamOf(p); t.Valid() {
			teams[t] = append(teams[t], p)
		}
	}
	return teams
}

// TeamSizes counts players per team.
func TeamSizes(teams []Team) [TeamCount]int {
	var sizes [TeamCount]int
	for _, t := range teams {
		if t.Valid() {
			sizes[t]++
		}
	}
	return sizes
}

// IsLayoutStartable reports whether a match with these seat teams may start:
// two or three populated teams, all of the same size, between 1 and 4 players.
func IsLayoutStartable(teams []Team) bool {
	size, populated := 0, 0
	for _, n := range TeamSizes(teams) {
		if n == 0 {
			continue
		}
		if populated > 0 && n != size {
			return false
		}
		size = n
		populated++
	}
	return populated >= 2 && size >= 1 && size <= MaxTeamSize
}

// AssignNewPlayerTeam picks the team a new joiner lands on: the smallest one,
// ties going to the lowest index.
func AssignNewPlayerTeam(teams []Team) Team {
	sizes := TeamSizes(teams)
	best := One
	for t := One; t <= Three; t++ {
		if sizes[t] < sizes[best] {
			best = t
		}
	}
	return best
}

// RebalanceSeatOrder returns seat indexes reordered round-robin across teams
// (team one, two, three, one, ...), draining whichever teams still have
// players. The result decides turn order.
func RebalanceSeatOrder(teams []Team) []int {
	var queues [TeamCount][]int
	for i, t := range teams {
		if t.Valid() {
			queues[t] = append(queues[t], i)
		}
	}
	order := make([]int, 0, len(teams))
	for len(order) < len(teams) {
		progressed := false
		for t := range queues {
			if len(queues[t]) == 0 {
				continue
			}
			order = append(order, queues[t][0])
			queues[t] = queues[t][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return order
}

// ShuffleTeams permutes the team labels among seats (Fisher-Yates), keeping
// the team sizes intact.
func ShuffleTeams(teams []Team, rng *rand.Rand) []Team {
	out := append([]Team(nil), teams...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
