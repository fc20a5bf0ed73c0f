package model

// WinnerEntry is one line of the winners table
type WinnerEntry struct {
	Name string
	Wins int
}
