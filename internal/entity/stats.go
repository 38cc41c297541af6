package entity

// Stats holds the aggregate tic-tac-toe results for one display name.
// The current streak grows on wins and resets on both losses and draws.
type Stats struct {
	Username         string `json:"username"`
	Wins             int    `json:"tictactoeWins"`
	Losses           int    `json:"tictactoeLosses"`
	Ties             int    `json:"tictactoeTies"`
	TotalGamesPlayed int    `json:"totalGamesPlayed"`
	CurrentStreak    int    `json:"currentStreak"`
	BestStreak       int    `json:"bestStreak"`
}

func (that *Stats) AddWin() {
	that.Wins++
	that.TotalGamesPlayed++
	that.CurrentStreak++

	if that.CurrentStreak > that.BestStreak {
		that.BestStreak = that.CurrentStreak
	}
}

func (that *Stats) AddLoss() {
	that.Losses++
	that.TotalGamesPlayed++
	that.CurrentStreak = 0
}

func (that *Stats) AddTie() {
	that.Ties++
	that.TotalGamesPlayed++
	that.CurrentStreak = 0
}
