package loop

const controlsLine = "Controls: A/D or Arrows to move, SPACE to shoot, Q to quit"

// titleScreen returns the lines of the start screen.
func titleScreen() []string {
	return []string{
		"I N V A D E R S",
		"Press SPACE to Start",
		controlsLine,
	}
}

// resultScreen returns the lines shown once a session has ended.
func resultScreen(status Status) []string {
	var title string
	switch status {
	case StatusVictory:
		title = "VICTORY"
	case StatusGameOver:
		title = "GAME OVER"
	default:
		title = "PAUSED"
	}
	return []string{
		title,
		"Press SPACE to Restart",
		"Q to quit",
	}
}
