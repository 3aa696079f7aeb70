// Command client is a terminal player for the Batalla Naval server.
//
// It connects over WebSocket, joins a game (or reconnects with a saved
// token), walks through fleet placement interactively or randomly with
// --auto, and then plays turns at a prompt until the game ends.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
	transport "github.com/LudwigRoderich/BatallaNaval/transport/websocket"
)

var (
	serverURL  = flag.String("server", "ws://localhost:8080/ws", "WebSocket URL of the game server")
	gameID     = flag.String("game", "", "Game ID to join (empty for matchmaking)")
	playerID   = flag.String("player", "", "Player ID (generated when empty)")
	playerName = flag.String("name", "Captain", "Display name")
	token      = flag.String("token", "", "Reconnect token (requires --game and --player)")
	auto       = flag.Bool("auto", false, "Place the fleet randomly without prompting")
)

func main() {
	flag.Parse()

	id := *playerID
	if id == "" {
		id = fmt.Sprintf("player-%04d", rand.Intn(10000))
	}

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", *serverURL, err)
		os.Exit(1)
	}
	defer conn.Close()

	c := &client{
		conn:     conn,
		in:       bufio.NewScanner(os.Stdin),
		playerID: id,
		auto:     *auto,
	}

	if *token != "" {
		err = c.send(&transport.ClientMessage{
			Type:     transport.TypeReconnect,
			GameID:   *gameID,
			PlayerID: id,
			Token:    *token,
		})
	} else {
		err = c.send(&transport.ClientMessage{
			Type:       transport.TypeJoinGame,
			GameID:     *gameID,
			PlayerID:   id,
			PlayerName: *playerName,
		})
	}
	if err != nil {
		fmt.Printf("Failed to send join: %v\n", err)
		os.Exit(1)
	}

	if err := c.play(); err != nil {
		fmt.Printf("Connection closed: %v\n", err)
		os.Exit(1)
	}
}

// client holds the state of one interactive session.
type client struct {
	conn     *websocket.Conn
	in       *bufio.Scanner
	playerID string
	gameID   string
	token    string
	auto     bool

	view   *engine.PlayerView
	placed bool
}

func (c *client) send(msg *transport.ClientMessage) error {
	return c.conn.WriteJSON(msg)
}

// play runs the message loop until the game ends or the connection drops.
// A separate reader goroutine keeps draining the socket (and answering
// pings) while the main loop is blocked at a prompt.
func (c *client) play() error {
	incoming := make(chan *transport.ServerMessage, 64)
	readErr := make(chan error, 1)

	go func() {
		for {
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			// The server batches queued pushes into one frame, newline separated
			for _, line := range bytes.Split(data, []byte{'\n'}) {
				if len(bytes.TrimSpace(line)) == 0 {
					continue
				}
				var msg transport.ServerMessage
				if err := json.Unmarshal(line, &msg); err != nil {
					continue
				}
				incoming <- &msg
			}
		}
	}()

	for {
		select {
		case msg := <-incoming:
			done, err := c.handle(msg)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case err := <-readErr:
			return err
		}
	}
}

// handle dispatches one server message. It returns done=true when the game
// is over and the client should exit.
func (c *client) handle(msg *transport.ServerMessage) (bool, error) {
	switch msg.Type {
	case transport.TypeGameState:
		return false, c.handleGameState(msg)
	case transport.TypeAttackResult:
		c.printAttackResult(msg)
	case transport.TypeOpponentMove:
		c.printOpponentMove(msg)
	case transport.TypeNotification:
		fmt.Printf("• %s\n", msg.Message)
	case transport.TypeGameOver:
		c.printGameOver(msg)
		return true, nil
	case transport.TypeError:
		fmt.Printf("⚠️  %s (%s)\n", msg.Message, transport.StatusText(msg.Code))
		// A rejected command does not trigger a fresh state push, so re-prompt
		if c.view != nil && c.view.Phase == engine.PhaseInProgress && c.view.YourTurn {
			return false, c.promptAttack()
		}
		if c.view != nil && c.view.Phase == engine.PhasePlacingShips && !c.placed {
			return false, c.placeFleet()
		}
	case transport.TypePong:
		// keepalive
	}
	return false, nil
}

func (c *client) handleGameState(msg *transport.ServerMessage) error {
	if msg.GameState != nil {
		c.view = msg.GameState
	}
	if msg.GameID != "" {
		c.gameID = msg.GameID
	}
	if msg.Token != "" && msg.Token != c.token {
		c.token = msg.Token
		fmt.Printf("Joined game %s as %s\n", c.gameID, c.playerID)
		fmt.Printf("Reconnect token: %s\n", c.token)
		fmt.Printf("Resume with: --game %s --player %s --token %s\n", c.gameID, c.playerID, c.token)
	}

	switch msg.Code {
	case transport.StatusWaitingForOpponent:
		fmt.Println("Waiting for an opponent to join...")

	case transport.StatusGameStarted, transport.StatusBothPlayersReady:
		if msg.OpponentName != "" {
			fmt.Printf("Opponent: %s\n", msg.OpponentName)
		}
		fmt.Println("\nBoth players are in. Time to place your fleet.")
		return c.placeFleet()

	case transport.StatusShipsPlaced:
		c.placed = true
		fmt.Println("Fleet is in position. Waiting for your opponent...")
		if c.view != nil {
			printOwnBoard(c.view.OwnBoard)
		}

	case transport.StatusYourTurn:
		c.placed = true
		c.printBoards()
		return c.promptAttack()

	case transport.StatusWaitingForOpponentTurn:
		fmt.Println("Opponent's turn...")

	case transport.StatusReconnectSuccess:
		fmt.Printf("Reconnected to game %s\n", c.gameID)
		if c.view == nil {
			return nil
		}
		switch {
		case c.view.Phase == engine.PhasePlacingShips && c.view.OwnShipCount == 0:
			return c.placeFleet()
		case c.view.Phase == engine.PhaseInProgress && c.view.YourTurn:
			c.placed = true
			c.printBoards()
			return c.promptAttack()
		case c.view.Phase == engine.PhaseInProgress:
			c.placed = true
			c.printBoards()
			fmt.Println("Opponent's turn...")
		default:
			c.placed = c.view.OwnShipCount > 0
		}
	}
	return nil
}

// placeFleet collects a full fleet (randomly with --auto, otherwise at the
// prompt) and submits it in one message.
func (c *client) placeFleet() error {
	size := engine.DefaultBoardSize
	if c.view != nil && len(c.view.OwnBoard) > 0 {
		size = len(c.view.OwnBoard)
	}
	fleet := engine.ShipTypes()

	var ships []service.ShipSpec
	if c.auto {
		ships = randomFleet(size, fleet)
		fmt.Println("Placing fleet randomly...")
	} else {
		ships = c.promptFleet(size, fleet)
	}

	return c.send(&transport.ClientMessage{Type: transport.TypePlaceShips, Ships: ships})
}

// randomFleet keeps drawing positions until the whole fleet fits without
// overlaps. With a board big enough for the fleet this terminates quickly.
func randomFleet(size int, fleet []engine.ShipType) []service.ShipSpec {
	for {
		taken := make(map[engine.Coordinate]bool)
		ships := make([]service.ShipSpec, 0, len(fleet))
		ok := true
		for _, shipType := range fleet {
			spec, placed := randomShip(size, shipType, taken)
			if !placed {
				ok = false
				break
			}
			ships = append(ships, spec)
		}
		if ok {
			return ships
		}
	}
}

func randomShip(size int, shipType engine.ShipType, taken map[engine.Coordinate]bool) (service.ShipSpec, bool) {
	length := shipType.Length()
	for attempt := 0; attempt < 100; attempt++ {
		orientation := engine.Horizontal
		if rand.Intn(2) == 1 {
			orientation = engine.Vertical
		}
		spec := service.ShipSpec{Type: shipType, Orientation: orientation}
		if orientation == engine.Horizontal {
			spec.Start = engine.Coordinate{X: rand.Intn(size - length + 1), Y: rand.Intn(size)}
		} else {
			spec.Start = engine.Coordinate{X: rand.Intn(size), Y: rand.Intn(size - length + 1)}
		}

		cells := shipCells(spec, length)
		clear := true
		for _, cell := range cells {
			if taken[cell] {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		for _, cell := range cells {
			taken[cell] = true
		}
		return spec, true
	}
	return service.ShipSpec{}, false
}

// shipCells expands a placement into the coordinates it covers.
func shipCells(spec service.ShipSpec, length int) []engine.Coordinate {
	cells := make([]engine.Coordinate, length)
	for i := 0; i < length; i++ {
		if spec.Orientation == engine.Horizontal {
			cells[i] = engine.Coordinate{X: spec.Start.X + i, Y: spec.Start.Y}
		} else {
			cells[i] = engine.Coordinate{X: spec.Start.X, Y: spec.Start.Y + i}
		}
	}
	return cells
}

// promptFleet asks for each ship position in turn, rejecting placements
// that leave the board or overlap before they ever reach the server.
func (c *client) promptFleet(size int, fleet []engine.ShipType) []service.ShipSpec {
	fmt.Printf("Place your ships on a %dx%d board.\n", size, size)
	fmt.Println("For each ship enter: x y h|v (h = horizontal, v = vertical)")

	taken := make(map[engine.Coordinate]bool)
	ships := make([]service.ShipSpec, 0, len(fleet))
	for _, shipType := range fleet {
		for {
			fmt.Printf("%s (length %d) > ", shipType, shipType.Length())
			line, ok := c.readLine()
			if !ok {
				return ships
			}
			spec, err := parsePlacement(line, shipType, size)
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}

			cells := shipCells(spec, shipType.Length())
			overlap := false
			for _, cell := range cells {
				if taken[cell] {
					overlap = true
					break
				}
			}
			if overlap {
				fmt.Println("  overlaps a ship you already placed")
				continue
			}
			for _, cell := range cells {
				taken[cell] = true
			}
			ships = append(ships, spec)
			break
		}
	}
	return ships
}

// parsePlacement parses "x y h|v" into a ship spec and checks that the ship
// stays on the board.
func parsePlacement(line string, shipType engine.ShipType, size int) (service.ShipSpec, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return service.ShipSpec{}, fmt.Errorf("expected: x y h|v")
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return service.ShipSpec{}, fmt.Errorf("x must be a number")
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return service.ShipSpec{}, fmt.Errorf("y must be a number")
	}

	var orientation engine.Orientation
	switch strings.ToLower(fields[2]) {
	case "h":
		orientation = engine.Horizontal
	case "v":
		orientation = engine.Vertical
	default:
		return service.ShipSpec{}, fmt.Errorf("orientation must be h or v")
	}

	spec := service.ShipSpec{
		Type:        shipType,
		Start:       engine.Coordinate{X: x, Y: y},
		Orientation: orientation,
	}
	for _, cell := range shipCells(spec, shipType.Length()) {
		if cell.X < 0 || cell.X >= size || cell.Y < 0 || cell.Y >= size {
			return service.ShipSpec{}, fmt.Errorf("ship runs off the board")
		}
	}
	return spec, nil
}

// promptAttack reads a target and fires. "surrender" concedes.
func (c *client) promptAttack() error {
	for {
		fmt.Print("Fire (x y) > ")
		line, ok := c.readLine()
		if !ok {
			return fmt.Errorf("stdin closed")
		}
		if strings.EqualFold(line, "surrender") {
			return c.send(&transport.ClientMessage{Type: transport.TypeSurrender})
		}
		coord, err := parseCoordinate(line)
		if err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		return c.send(&transport.ClientMessage{Type: transport.TypeAttack, Coordinate: &coord})
	}
}

// parseCoordinate parses "x y" into a coordinate.
func parseCoordinate(line string) (engine.Coordinate, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return engine.Coordinate{}, fmt.Errorf("expected: x y")
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return engine.Coordinate{}, fmt.Errorf("x must be a number")
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return engine.Coordinate{}, fmt.Errorf("y must be a number")
	}
	return engine.Coordinate{X: x, Y: y}, nil
}

func (c *client) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *client) printAttackResult(msg *transport.ServerMessage) {
	coord := ""
	if msg.Coordinate != nil {
		coord = msg.Coordinate.String()
	}
	switch msg.Outcome {
	case engine.OutcomeShipSunk:
		fmt.Printf("💥 %s: enemy %s sunk!\n", coord, msg.ShipType)
	case engine.OutcomeHit:
		fmt.Printf("💥 %s: hit!\n", coord)
	case engine.OutcomeMiss:
		fmt.Printf("🌊 %s: miss\n", coord)
	case engine.OutcomeAlreadyAttacked:
		fmt.Printf("⚠️  %s was already attacked, move wasted\n", coord)
	case engine.OutcomeInvalidCoordinate:
		fmt.Printf("⚠️  %s is off the board\n", coord)
	}
}

func (c *client) printOpponentMove(msg *transport.ServerMessage) {
	coord := ""
	if msg.Coordinate != nil {
		coord = msg.Coordinate.String()
	}
	switch {
	case msg.ShipSunk:
		fmt.Printf("Opponent fired at %s and sank your %s!\n", coord, msg.ShipType)
	case msg.Outcome == engine.OutcomeHit:
		fmt.Printf("Opponent fired at %s: hit\n", coord)
	default:
		fmt.Printf("Opponent fired at %s: miss\n", coord)
	}
	if len(msg.Board) > 0 {
		printOwnBoard(msg.Board)
	}
}

func (c *client) printGameOver(msg *transport.ServerMessage) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 34))
	if msg.Winner == c.playerID {
		fmt.Println("🎉 VICTORY!")
	} else {
		fmt.Println("💀 DEFEAT")
	}
	if msg.Message != "" {
		fmt.Println(msg.Message)
	}
	fmt.Printf("Winner: %s  Loser: %s\n", msg.Winner, msg.Loser)
	if msg.Reason != "" {
		fmt.Printf("Reason: %s\n", msg.Reason)
	}
	if msg.TotalMoves > 0 {
		fmt.Printf("Total moves: %d (winner moves: %d)\n", msg.TotalMoves, msg.WinningMoves)
	}
	fmt.Println(strings.Repeat("=", 34))
}

func (c *client) printBoards() {
	if c.view == nil {
		return
	}
	fmt.Println()
	printOwnBoard(c.view.OwnBoard)
	printTrackingBoard(c.view.OpponentBoard)
	fmt.Printf("Moves: %d | Enemy ships sunk: %d\n", c.view.MoveCount, c.view.OpponentShipsSunk)
	fmt.Println("Your turn. Type \"surrender\" to concede.")
}

func printOwnBoard(board [][]engine.CellState) {
	if len(board) == 0 {
		return
	}
	fmt.Println("Your board (S=ship X=hit o=miss .=water):")
	printColumnHeader(len(board[0]))
	for y, row := range board {
		fmt.Printf("%2d ", y)
		for _, cell := range row {
			switch cell {
			case engine.CellShip:
				fmt.Print("S ")
			case engine.CellHit:
				fmt.Print("X ")
			case engine.CellMiss:
				fmt.Print("o ")
			default:
				fmt.Print(". ")
			}
		}
		fmt.Println()
	}
}

func printTrackingBoard(board [][]engine.PublicCellState) {
	if len(board) == 0 {
		return
	}
	fmt.Println("Tracking board (?=unknown X=hit o=miss):")
	printColumnHeader(len(board[0]))
	for y, row := range board {
		fmt.Printf("%2d ", y)
		for _, cell := range row {
			switch cell {
			case engine.PublicHit:
				fmt.Print("X ")
			case engine.PublicMiss:
				fmt.Print("o ")
			case engine.PublicEmpty:
				fmt.Print(". ")
			default:
				fmt.Print("? ")
			}
		}
		fmt.Println()
	}
}

func printColumnHeader(size int) {
	fmt.Print("   ")
	for x := 0; x < size; x++ {
		fmt.Printf("%d ", x%10)
	}
	fmt.Println()
}
