package engine

import "fmt"

// Game orchestrates two players through the battleship state machine:
// joining, ship placement, strictly alternating attack turns and win
// detection. A Game is a plain sequential state machine; it never blocks,
// logs or performs I/O, and callers must serialize all mutating calls on a
// single instance.
type Game struct {
	rules       Rules
	players     map[string]*Player
	playerOrder []string
	phase       GamePhase
	currentTurn string
	moveCount   int
	winner      string
}

// NewGame creates a game in WAITING_FOR_PLAYERS with the given rules
func NewGame(rules Rules) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		rules:   rules.clone(),
		players: make(map[string]*Player),
		phase:   PhaseWaitingForPlayers,
	}, nil
}

// NewDefaultGame creates a game with DefaultRules
func NewDefaultGame() *Game {
	return &Game{
		rules:   DefaultRules(),
		players: make(map[string]*Player),
		phase:   PhaseWaitingForPlayers,
	}
}

// Rules returns a copy of the game's rules
func (g *Game) Rules() Rules {
	return g.rules.clone()
}

// BoardSize returns the side length of this game's boards
func (g *Game) BoardSize() int {
	return g.rules.BoardSize
}

// Phase returns the current stage of the state machine
func (g *Game) Phase() GamePhase {
	return g.phase
}

// CurrentTurn returns the id of the player allowed to attack, or empty
// outside IN_PROGRESS
func (g *Game) CurrentTurn() string {
	return g.currentTurn
}

// MoveCount returns the number of attack calls made so far
func (g *Game) MoveCount() int {
	return g.moveCount
}

// Winner returns the winning player's id, or empty
func (g *Game) Winner() string {
	return g.winner
}

// IsFinished reports whether the game has reached FINISHED
func (g *Game) IsFinished() bool {
	return g.phase == PhaseFinished
}

// PlayerIDs returns the player ids in join order
func (g *Game) PlayerIDs() []string {
	return append([]string(nil), g.playerOrder...)
}

// PlayerCount returns the number of joined players
func (g *Game) PlayerCount() int {
	return len(g.players)
}

// HasPlayer reports whether id belongs to this game
func (g *Game) HasPlayer(id string) bool {
	_, ok := g.players[id]
	return ok
}

// OpponentID returns the id of the other player, or empty when id has no
// opponent yet
func (g *Game) OpponentID(id string) string {
	for _, pid := range g.playerOrder {
		if pid != id {
			return pid
		}
	}
	return ""
}

// AddPlayer registers a player while the game is waiting for players. Each
// player gets a fresh pair of empty boards.
func (g *Game) AddPlayer(id string) error {
	if g.phase != PhaseWaitingForPlayers {
		return fmt.Errorf("%w: cannot add players in %s", ErrGameState, g.phase)
	}
	if id == "" {
		return fmt.Errorf("%w: player id must not be empty", ErrPlayer)
	}
	if _, ok := g.players[id]; ok {
		return fmt.Errorf("%w: player %q already joined", ErrPlayer, id)
	}
	if len(g.players) >= MaxPlayers {
		return fmt.Errorf("%w: game already has %d players", ErrPlayer, MaxPlayers)
	}
	player, err := NewPlayer(id, g.rules.BoardSize)
	if err != nil {
		return err
	}
	g.players[id] = player
	g.playerOrder = append(g.playerOrder, id)
	return nil
}

// Start moves the game to ship placement once exactly two players have
// joined. No turn is selected yet.
func (g *Game) Start() error {
	if g.phase != PhaseWaitingForPlayers {
		return fmt.Errorf("%w: cannot start from %s", ErrGameState, g.phase)
	}
	if len(g.players) != MaxPlayers {
		return fmt.Errorf("%w: need %d players to start, have %d", ErrGameState, MaxPlayers, len(g.players))
	}
	g.phase = PhasePlacingShips
	return nil
}

// PlaceShip places a ship for a player during the placement phase. The
// board re-validates structure (bounds, overlap, alignment) on its own.
func (g *Game) PlaceShip(playerID string, ship *Ship) error {
	if g.phase != PhasePlacingShips {
		return fmt.Errorf("%w: cannot place ships in %s", ErrGameState, g.phase)
	}
	player, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %q", ErrPlayer, playerID)
	}
	if ship == nil {
		return fmt.Errorf("%w: nil ship", ErrInvalidShip)
	}
	if !g.rules.InFleet(ship.Type()) {
		return fmt.Errorf("%w: %s is not part of this game's fleet", ErrShipPlacement, ship.Type())
	}
	return player.PlaceShip(ship)
}

// RemoveShip withdraws a placed ship during the placement phase so a player
// can rearrange their fleet before the game starts.
func (g *Game) RemoveShip(playerID, shipID string) error {
	if g.phase != PhasePlacingShips {
		return fmt.Errorf("%w: cannot remove ships in %s", ErrGameState, g.phase)
	}
	player, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %q", ErrPlayer, playerID)
	}
	if player.board.RemoveShip(shipID) == nil {
		return fmt.Errorf("%w: player %q has no ship %q", ErrShipPlacement, playerID, shipID)
	}
	return nil
}

// ClearShips removes every ship a player has placed, letting a transport
// re-submit a full fleet in one shot.
func (g *Game) ClearShips(playerID string) error {
	if g.phase != PhasePlacingShips {
		return fmt.Errorf("%w: cannot clear ships in %s", ErrGameState, g.phase)
	}
	player, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %q", ErrPlayer, playerID)
	}
	for id := range player.board.ships {
		player.board.RemoveShip(id)
	}
	return nil
}

// AllShipsPlaced reports whether both players have placed the full fleet
func (g *Game) AllShipsPlaced() bool {
	if len(g.players) != MaxPlayers {
		return false
	}
	for _, p := range g.players {
		if !p.AllShipsPlaced(g.rules.Fleet) {
			return false
		}
	}
	return true
}

// ShipsPlacedBy returns how many ships playerID has placed
func (g *Game) ShipsPlacedBy(playerID string) (int, error) {
	player, ok := g.players[playerID]
	if !ok {
		return 0, fmt.Errorf("%w: unknown player %q", ErrPlayer, playerID)
	}
	return player.ShipCount(), nil
}

// FinishShipPlacement starts play once both fleets are complete. The
// opening turn goes to the player who joined first.
func (g *Game) FinishShipPlacement() error {
	if g.phase != PhasePlacingShips {
		return fmt.Errorf("%w: cannot finish placement in %s", ErrGameState, g.phase)
	}
	if !g.AllShipsPlaced() {
		return fmt.Errorf("%w: not all players have placed their ships", ErrGameState)
	}
	g.phase = PhaseInProgress
	g.currentTurn = g.playerOrder[0]
	return nil
}

// Attack resolves one attack by attackerID at c. The move counter advances
// on every call, whatever the outcome. The turn passes to the defender only
// on MISS or ALREADY_ATTACKED; on HIT or SHIP_SUNK the attacker shoots
// again, and INVALID_COORDINATE also keeps the attacker's turn.
func (g *Game) Attack(attackerID string, c Coordinate) (AttackResult, error) {
	if g.phase != PhaseInProgress {
		return AttackResult{}, fmt.Errorf("%w: cannot attack in %s", ErrGameState, g.phase)
	}
	attacker, ok := g.players[attackerID]
	if !ok {
		return AttackResult{}, fmt.Errorf("%w: unknown player %q", ErrPlayer, attackerID)
	}
	if attackerID != g.currentTurn {
		return AttackResult{}, fmt.Errorf("%w: not %q's turn", ErrPlayer, attackerID)
	}
	defender := g.players[g.OpponentID(attackerID)]

	outcome := defender.ReceiveAttack(c)
	attacker.UpdateTrackingBoard(c, outcome)
	g.moveCount++

	result := AttackResult{
		Outcome:            outcome,
		ShipSunk:           outcome == OutcomeShipSunk,
		DefenderID:         defender.ID(),
		AttackedCoordinate: c,
	}
	if outcome == OutcomeShipSunk {
		if ship := defender.board.ShipAt(c); ship != nil {
			result.SunkShipType = ship.Type()
		}
	}

	if defender.AllShipsSunk() {
		g.phase = PhaseFinished
		g.winner = attackerID
		g.currentTurn = ""
		result.GameFinished = true
		return result, nil
	}

	if outcome == OutcomeMiss || outcome == OutcomeAlreadyAttacked {
		g.currentTurn = defender.ID()
	}
	return result, nil
}

// Forfeit ends the game immediately with the opponent as winner. Valid in
// any phase before FINISHED; forfeiting without an opponent leaves no
// winner.
func (g *Game) Forfeit(playerID string) error {
	if g.phase == PhaseFinished {
		return fmt.Errorf("%w: game already finished", ErrGameState)
	}
	if _, ok := g.players[playerID]; !ok {
		return fmt.Errorf("%w: unknown player %q", ErrPlayer, playerID)
	}
	g.phase = PhaseFinished
	g.winner = g.OpponentID(playerID)
	g.currentTurn = ""
	return nil
}

// Result summarizes a finished game, or returns nil while play continues or
// when the game ended without a winner. Winning moves are counted off the
// winner's tracking board, where HIT and SHIP_SUNK outcomes both land as
// HIT cells.
func (g *Game) Result() *GameOverResult {
	if g.phase != PhaseFinished || g.winner == "" {
		return nil
	}
	winner := g.players[g.winner]
	winningMoves := 0
	for _, state := range winner.tracking.cells {
		if state == CellHit {
			winningMoves++
		}
	}
	return &GameOverResult{
		WinnerID:     g.winner,
		LoserID:      g.OpponentID(g.winner),
		TotalMoves:   g.moveCount,
		WinningMoves: winningMoves,
	}
}

// PublicStateFor assembles the view of the game playerID is allowed to
// see: their own board in full, the opponent's board masked.
func (g *Game) PublicStateFor(playerID string) (PlayerView, error) {
	player, ok := g.players[playerID]
	if !ok {
		return PlayerView{}, fmt.Errorf("%w: unknown player %q", ErrPlayer, playerID)
	}
	view := PlayerView{
		PlayerID:     playerID,
		Phase:        g.phase,
		YourTurn:     g.currentTurn == playerID,
		MoveCount:    g.moveCount,
		OwnShipCount: player.ShipCount(),
		OwnBoard:     player.board.Grid(),
		Finished:     g.phase == PhaseFinished,
		Winner:       g.winner,
	}
	if opponentID := g.OpponentID(playerID); opponentID != "" {
		opponent := g.players[opponentID]
		view.OpponentID = opponentID
		view.OpponentBoard = publicGrid(g.rules.BoardSize, opponent.PublicBoardState())
		view.OpponentShipsSunk = opponent.board.SunkShipCount()
	}
	return view, nil
}

// publicGrid lays a masked board state out as rows indexed by y
func publicGrid(size int, cells map[Coordinate]PublicCellState) [][]PublicCellState {
	grid := make([][]PublicCellState, size)
	for y := 0; y < size; y++ {
		row := make([]PublicCellState, size)
		for x := 0; x < size; x++ {
			row[x] = cells[Coordinate{X: x, Y: y}]
		}
		grid[y] = row
	}
	return grid
}
