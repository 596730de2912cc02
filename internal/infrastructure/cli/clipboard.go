package cli

import (
	"github.com/atotto/clipboard"

	"github.com/okzu/shellm/internal/ports"
)

// Clipboard implements ports.Clipboard through the system clipboard tooling
// (pbcopy, xclip/xsel, wl-clipboard, or the Windows API).
type Clipboard struct{}

func NewClipboard() *Clipboard {
	return &Clipboard{}
}

func (c *Clipboard) Enabled() bool {
	return !clipboard.Unsupported
}

func (c *Clipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ ports.Clipboard = (*Clipboard)(nil)
