package playerstats

// Row is the cumulative statistic line of one player in a league.
type Row struct {
	PlayerID    string
	PlayerName  string
	TeamID      string
	TeamName    string
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
	MVPCount    int
}
