package game

import (
	"image/color"

	"punchball/sim"
)

// playerColors is indexed by player id
var playerColors = [sim.MaxPlayers]color.RGBA{
	{60, 89, 126, 255},   // blue
	{249, 194, 106, 255}, // gold
	{96, 144, 137, 255},  // green
	{151, 86, 40, 255},   // brown
}

// PlayerColor returns the colour of player id
func PlayerColor(id sim.PlayerID) color.RGBA {
	if id < 0 || int(id) >= len(playerColors) {
		return color.RGBA{200, 200, 200, 255}
	}
	return playerColors[id]
}
