// meta/meta.go
package meta

// SEARCH_DEPTH defines the default minimax depth in plies.
const SEARCH_DEPTH = 2

// MAX_ITERATIVE_DEPTH caps iterative deepening when searching against a clock.
const MAX_ITERATIVE_DEPTH = 32

// MAX_MOVES defines the number of moves after which a self-play game is called.
const MAX_MOVES = 60

// WIN_BONUS is added to the winner's score and taken from the loser's.
const WIN_BONUS = 50

// GAMES_PER_PAIRING defines how many games each ordered pair plays in a playoff.
const GAMES_PER_PAIRING = 4

// PORT defines the default port of the game server.
const PORT = 8000

// STATE_KEY names the persisted game session.
const STATE_KEY = "game"
