//go:build unix

package caps

import (
	"strings"

	"pkt.systems/termline/schema"
)

// FromTerm builds a capability snapshot for a remote session where only
// the advertised terminal name and window size are known. The local
// environment and terminfo database describe the server side, not the
// peer, so classification relies on the name and the family whitelists
// alone, with geometry passing through the usual sanity clamp.
func FromTerm(term string, width, height int) schema.Capabilities {
	family := familyFromTermName(term)
	c := schema.Capabilities{
		IsTTY:   true,
		Family:  family,
		Colors:  remoteColorDepth(term, family),
		Attrs:   detectAttrs(family, nil),
		Latency: familyLatency(family),
	}
	c.Features = familyFeatures(family)
	c.Width, c.Height = clampGeometry(width, height)
	c.Optimizations = deriveOptimizations(c)
	return c
}

func familyFromTermName(term string) schema.TerminalFamily {
	switch {
	case strings.HasPrefix(term, "tmux"):
		return schema.FamilyTmux
	case strings.HasPrefix(term, "screen"):
		return schema.FamilyScreen
	case strings.Contains(term, "kitty"):
		return schema.FamilyKitty
	case term == "alacritty":
		return schema.FamilyAlacritty
	case strings.HasPrefix(term, "konsole"):
		return schema.FamilyKonsole
	case term == "linux":
		return schema.FamilyLinuxConsole
	case strings.HasPrefix(term, "rxvt"):
		return schema.FamilyRxvt
	case strings.HasPrefix(term, "xterm"):
		return schema.FamilyXTerm
	default:
		return schema.FamilyGeneric
	}
}

func remoteColorDepth(term string, family schema.TerminalFamily) schema.ColorDepth {
	if truecolorFamily(family) {
		return schema.ColorTrue
	}
	if strings.Contains(term, "256color") {
		return schema.Color256
	}
	if family == schema.FamilyGeneric && term == "dumb" {
		return schema.ColorNone
	}
	return schema.Color16
}
