package game

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/playperu/sequence/internal/sequence"
)

func (f *fixture) party(t *testing.T, guests ...string) PartyView {
	t.Helper()
	ctx := context.Background()
	pv, err := f.svc.CreateParty(ctx, "p0")
	if err != nil {
		t.Fatalf("create party: %v", err)
	}
	for _, id := range guests {
		status, _, err := f.svc.JoinParty(ctx, pv.Code, id)
		if err != nil || status != PartyJoinSuccess {
			t.Fatalf("join party as %s: %s, %v", id, status, err)
		}
	}
	return pv
}

// finishActive force-finishes the party's active match.
func (f *fixture) finishActive(t *testing.T, partyCode string) string {
	t.Helper()
	code, ok := f.svc.ActiveMatch(partyCode)
	if !ok {
		t.Fatal("expected an active match")
	}
	m := f.match(t, code)
	tx := &txn{now: f.clock.Now()}
	m.mu.Lock()
	f.svc.finish(m, nil, FinishStale, tx)
	m.mu.Unlock()
	f.svc.settle(context.Background(), m, tx)
	return code
}

func TestCreateParty(t *testing.T) {
	f := newFixture(t)
	pv := f.party(t)

	if !ValidCode(pv.Code) || pv.Code[:2] != "P-" {
		t.Errorf("unexpected code %q", pv.Code)
	}
	if len(pv.MatchCodes) != 1 || pv.ActiveMatch != pv.MatchCodes[0] {
		t.Fatalf("expected one active match, got %+v", pv)
	}
	v, err := f.svc.Match(pv.ActiveMatch)
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if v.PartyCode != pv.Code || v.OwnerID != "p0" {
		t.Errorf("unexpected first match %+v", v)
	}
}

func TestJoinParty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pv := f.party(t, "p1")

	status, _, _ := f.svc.JoinParty(ctx, "P-NOPE", "p2")
	if status != PartyJoinNotFound {
		t.Errorf("expected NOT_FOUND for an unknown party, got %s", status)
	}

	f.svc.Dispatch(ctx, pv.ActiveMatch, Start{PlayerID: "p0"})
	status, _, _ = f.svc.JoinParty(ctx, pv.Code, "p2")
	if status != PartyJoinBusy {
		t.Errorf("expected BUSY on a started match, got %s", status)
	}
	status, code, _ := f.svc.JoinParty(ctx, pv.Code, "p1")
	if status != PartyJoinSuccess || code != pv.ActiveMatch {
		t.Errorf("expected a seated member to rejoin, got %s %s", status, code)
	}

	f.finishActive(t, pv.Code)
	status, _, _ = f.svc.JoinParty(ctx, pv.Code, "p2")
	if status != PartyJoinNotFound {
		t.Errorf("expected NOT_FOUND without an active match, got %s", status)
	}

	got, _ := f.svc.Party(pv.Code)
	if !slices.Equal(got.Members, []string{"p0", "p1"}) {
		t.Errorf("expected members [p0 p1], got %v", got.Members)
	}
}

func TestJoinPartyFull(t *testing.T) {
	f := newFixture(t)
	pv := f.party(t)
	f.svc.Dispatch(context.Background(), pv.ActiveMatch, UpdateConfig{
		PlayerID: "p0",
		Config:   MatchConfig{TurnTimeLimitSeconds: 60, MaxPlayers: 2},
	})

	f.svc.JoinParty(context.Background(), pv.Code, "p1")
	status, _, _ := f.svc.JoinParty(context.Background(), pv.Code, "p2")
	if status != PartyJoinFull {
		t.Errorf("expected FULL, got %s", status)
	}
}

func TestNewPartyMatchGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pv := f.party(t, "p1")

	if _, reason, _ := f.svc.NewPartyMatch(ctx, pv.Code, "p0", ModeNormal); reason != ReasonMatchInProgress {
		t.Errorf("expected match-in-progress, got %q", reason)
	}
	f.finishActive(t, pv.Code)
	if _, reason, _ := f.svc.NewPartyMatch(ctx, pv.Code, "p1", ModeNormal); reason != ReasonNotOwner {
		t.Errorf("expected not-owner, got %q", reason)
	}
	if _, reason, _ := f.svc.NewPartyMatch(ctx, pv.Code, "p0", Mode("BOGUS")); reason != ReasonInvalidMode {
		t.Errorf("expected invalid-mode, got %q", reason)
	}
	if _, _, err := f.svc.NewPartyMatch(ctx, "P-NOPE", "p0", ModeNormal); !errors.Is(err, ErrPartyNotFound) {
		t.Errorf("expected ErrPartyNotFound, got %v", err)
	}
}

func TestNewPartyMatchModes(t *testing.T) {
	tests := []struct {
		mode        Mode
		wantStatus  Status
		wantSameSet bool
	}{
		{ModeFastRematch, StatusActive, true},
		{ModeShuffle, StatusLobby, true},
		{ModeNormal, StatusLobby, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			pv := f.party(t, "p1", "p2", "p3")
			prev := f.match(t, pv.ActiveMatch)
			f.svc.Dispatch(ctx, pv.ActiveMatch, MoveToTeam{PlayerID: "p0", TargetID: "p2", Team: sequence.Two})
			f.svc.Dispatch(ctx, pv.ActiveMatch, Start{PlayerID: "p0"})
			prevTeams := map[string]sequence.Team{}
			for _, p := range prev.Players {
				prevTeams[p.ID] = p.Team
			}
			prevCode := f.finishActive(t, pv.Code)

			v, reason, err := f.svc.NewPartyMatch(ctx, pv.Code, "p0", tt.mode)
			if err != nil || reason != "" {
				t.Fatalf("new party match: %q, %v", reason, err)
			}
			if v.Status != tt.wantStatus {
				t.Errorf("expected %s, got %s", tt.wantStatus, v.Status)
			}
			if len(v.Players) != 4 {
				t.Fatalf("expected 4 players, got %+v", v.Players)
			}
			sizes := sequence.TeamSizes(teamsOf(v.Players))
			if sizes != [sequence.TeamCount]int{2, 2, 0} && tt.mode != ModeNormal {
				t.Errorf("expected team sizes kept, got %v", sizes)
			}
			if tt.mode == ModeFastRematch {
				for _, p := range v.Players {
					if p.Team != prevTeams[p.ID] {
						t.Errorf("expected %s to stay on team %s, got %s", p.ID, prevTeams[p.ID], p.Team)
					}
				}
			}
			if tt.mode == ModeNormal && v.Players[0].ID != "p0" {
				t.Errorf("expected the owner seated first, got %s", v.Players[0].ID)
			}

			if _, ok := f.store.Match(prevCode); ok {
				t.Error("expected the finished match released")
			}
			got, _ := f.svc.Party(pv.Code)
			if got.ActiveMatch != v.Code || len(got.MatchCodes) != 2 {
				t.Errorf("expected the new match on top of the stack, got %+v", got)
			}
			if n := len(f.events.ofType(EventPartyMatchCreated)); n != 1 {
				t.Errorf("expected 1 PARTY_MATCH_CREATED, got %d", n)
			}
		})
	}
}

func TestNewPartyMatchKeepsConfig(t *testing.T) {
	tests := []struct {
		name    string
		guests  []string
		config  MatchConfig
		members []string
		want    MatchConfig
	}{
		{
			name:   "carried over",
			guests: []string{"p1"},
			config: MatchConfig{TurnTimeLimitSeconds: 120, MaxPlayers: 4},
			want:   MatchConfig{TurnTimeLimitSeconds: 120, MaxPlayers: 4},
		},
		{
			name:    "seat cap grows to the roster",
			guests:  []string{"p1"},
			config:  MatchConfig{TurnTimeLimitSeconds: 45, MaxPlayers: 2},
			members: []string{"p2", "p3"},
			want:    MatchConfig{TurnTimeLimitSeconds: 45, MaxPlayers: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			pv := f.party(t, tt.guests...)
			f.svc.Dispatch(ctx, pv.ActiveMatch, UpdateConfig{PlayerID: "p0", Config: tt.config})
			f.finishActive(t, pv.Code)

			p, _ := f.store.Party(pv.Code)
			p.mu.Lock()
			for _, id := range tt.members {
				p.addMember(id)
			}
			p.mu.Unlock()

			mode := ModeShuffle
			if len(tt.members) > 0 {
				mode = ModeNormal
			}
			v, reason, err := f.svc.NewPartyMatch(ctx, pv.Code, "p0", mode)
			if err != nil || reason != "" {
				t.Fatalf("new party match: %q, %v", reason, err)
			}
			if v.Config != tt.want {
				t.Errorf("expected config %+v, got %+v", tt.want, v.Config)
			}
		})
	}
}

func TestPartyLobbyDisconnectDropsMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pv := f.party(t, "p1")

	f.svc.Dispatch(ctx, pv.ActiveMatch, Connect{PlayerID: "p1"})
	f.svc.Dispatch(ctx, pv.ActiveMatch, Disconnect{PlayerID: "p1"})

	got, _ := f.svc.Party(pv.Code)
	if slices.Contains(got.Members, "p1") {
		t.Errorf("expected p1 dropped from %v", got.Members)
	}
}

func TestPartyMatchStaysAfterFinish(t *testing.T) {
	f := newFixture(t)
	pv := f.party(t, "p1")
	code := f.finishActive(t, pv.Code)

	reply, err := f.svc.Dispatch(context.Background(), code, Move{PlayerID: "p0", Row: 1, Col: 1})
	if err != nil {
		t.Fatalf("expected the party match kept, got %v", err)
	}
	if reply.Reason != ReasonNoActiveMatch {
		t.Errorf("expected no-active-match on an unstarted finished match, got %q", reply.Reason)
	}
}

func TestSweep(t *testing.T) {
	f := newFixture(t)

	lobby := f.lobby(t, 2)
	pv := f.party(t)
	f.clock.Advance(2 * time.Hour)
	active := f.started(t, 2)
	fresh := f.lobby(t, 1)

	matches, parties := f.svc.Sweep()
	if matches != 2 || parties != 1 {
		t.Errorf("expected 2 matches and 1 party evicted, got %d and %d", matches, parties)
	}
	if _, ok := f.store.Match(lobby); ok {
		t.Error("expected the idle lobby evicted")
	}
	if _, ok := f.store.Party(pv.Code); ok {
		t.Error("expected the orphaned party evicted")
	}
	for _, code := range []string{active, fresh} {
		if _, ok := f.store.Match(code); !ok {
			t.Errorf("expected %s kept", code)
		}
	}
}
