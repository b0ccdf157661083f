package round

// View is the public projection of a record sent to clients
// The deck order is never exposed, and the wildcard value is hidden until revealed.
type View struct {
	RoomCode         string        `json:"roomCode"`
	HostID           string        `json:"hostId"`
	BaseBet          int           `json:"baseBet"`
	Pot              int           `json:"pot"`
	TilesLeft        int           `json:"tilesLeft"`
	DrawnTiles       []int         `json:"drawnTiles"`
	Wildcard         Wildcard      `json:"wildcard"`
	CurrentTurnIndex int           `json:"currentTurnIndex"`
	CurrentPlayerID  string        `json:"currentPlayerId,omitempty"`
	RoundState       State         `json:"roundState"`
	AllBusted        bool          `json:"allBusted"`
	PendingBets      []string      `json:"pendingBets,omitempty"`
	WinnerID         string        `json:"winnerId,omitempty"`
	Players          []*PlayerView `json:"players"`
	Version          int64         `json:"version"`
}

// PlayerView is a player within a View
type PlayerView struct {
	*Player
	Total int `json:"total"`
}

// View returns the public projection of the record
func (r *Record) View() *View {
	v := &View{
		RoomCode:         r.RoomCode,
		HostID:           r.HostID,
		BaseBet:          r.BaseBet,
		Pot:              r.Pot,
		TilesLeft:        len(r.Deck),
		DrawnTiles:       cloneInts(r.DrawnTiles),
		Wildcard:         r.Wildcard,
		CurrentTurnIndex: r.CurrentTurnIndex,
		RoundState:       r.RoundState,
		AllBusted:        r.RoundState == StateInRound && r.AllBusted(),
		Players:          make([]*PlayerView, len(r.Players)),
		Version:          r.Version,
	}

	if !r.Wildcard.Revealed {
		v.Wildcard.Value = 0
	}

	if v.AllBusted {
		v.PendingBets = r.PendingBets()
	}

	if r.RoundState == StateInRound {
		if p := r.CurrentPlayer(); p != nil {
			v.CurrentPlayerID = p.ID
		}
	}

	if w := r.Winner(); w != nil && r.RoundState == StateFinished {
		v.WinnerID = w.ID
	}

	for i, p := range r.Players {
		v.Players[i] = &PlayerView{
			Player: p.clone(),
			Total:  r.Total(p),
		}
	}

	return v
}
