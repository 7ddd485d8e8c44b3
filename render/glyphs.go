package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/philkrause/mech-survivor-sub000/components"
)

// Enemy glyphs by population; subtypes shade within the population color
var enemyGlyphs = map[components.EnemyKind]rune{
	components.KindBasic:     'o',
	components.KindElite:     'A',
	components.KindFormation: 'v',
	components.KindWalker:    'W',
}

var enemyStyles = map[components.EnemyKind]tcell.Style{
	components.KindBasic:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
	components.KindElite:     tcell.StyleDefault.Foreground(tcell.ColorRed),
	components.KindFormation: tcell.StyleDefault.Foreground(tcell.ColorAqua),
	components.KindWalker:    tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
}

var pickupGlyphs = map[components.PickupKind]rune{
	components.PickupOrb:    '*',
	components.PickupRelic:  '&',
	components.PickupHealth: '+',
}

var pickupStyles = map[components.PickupKind]tcell.Style{
	components.PickupOrb:    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	components.PickupRelic:  tcell.StyleDefault.Foreground(tcell.ColorPurple),
	components.PickupHealth: tcell.StyleDefault.Foreground(tcell.ColorLime),
}

var (
	playerStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	shotStyle       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	enemyShotStyle  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	beamStyle       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	walkerBeamStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	strikeStyle     = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	damageStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	critStyle       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	deathStyle      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	hudStyle        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)
