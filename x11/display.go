package x11

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Display is a parsed DISPLAY string: [protocol/][host][/unix]:number[.screen]
type Display struct {
	Protocol string // "tcp", "unix" or "" for the default
	Host     string
	Number   int
	Screen   int
}

var displayRe = regexp.MustCompile(`^(?:(tcp|unix)/)?([\w.\-/]*?)(/unix)?:(\d+)(?:\.(\d+))?$`)

// ParseDisplay parses a DISPLAY string. An empty string means $DISPLAY.
//
// Examples:
//
//	":1"                 -> unix /tmp/.X11-unix/X1
//	"unix:0.1"           -> unix /tmp/.X11-unix/X0, screen 1
//	"/tmp/launch-123/:0" -> unix /tmp/launch-123/:0
//	"hostname:2.1"       -> tcp hostname:6002, screen 1
//	"tcp/hostname:1.0"   -> tcp hostname:6001
func ParseDisplay(s string) (Display, error) {
	if s == "" {
		s = os.Getenv("DISPLAY")
	}
	m := displayRe.FindStringSubmatch(s)
	if m == nil {
		return Display{}, errors.Errorf("x11: bad display string %q", s)
	}
	d := Display{Protocol: m[1], Host: m[2]}
	if m[3] != "" {
		d.Protocol = "unix"
	}
	var err error
	if d.Number, err = strconv.Atoi(m[4]); err != nil {
		return Display{}, errors.Wrapf(err, "x11: bad display number in %q", s)
	}
	if m[5] != "" {
		if d.Screen, err = strconv.Atoi(m[5]); err != nil {
			return Display{}, errors.Wrapf(err, "x11: bad screen number in %q", s)
		}
	}
	return d, nil
}

func (d Display) unix() bool {
	return d.Protocol == "unix" || (d.Protocol == "" && (d.Host == "" || d.Host == "unix" || strings.HasPrefix(d.Host, "/")))
}

// Network returns "unix" or "tcp".
func (d Display) Network() string {
	if d.unix() {
		return "unix"
	}
	return "tcp"
}

// Address returns the dial address of the display.
func (d Display) Address() string {
	switch {
	case strings.HasPrefix(d.Host, "/"):
		return fmt.Sprintf("%s:%d", d.Host, d.Number)
	case d.unix():
		return fmt.Sprintf("/tmp/.X11-unix/X%d", d.Number)
	}
	return fmt.Sprintf("%s:%d", d.Host, 6000+d.Number)
}

func (d Display) String() string {
	s := fmt.Sprintf("%s:%d.%d", d.Host, d.Number, d.Screen)
	if d.Protocol != "" {
		s = d.Protocol + "/" + s
	}
	return s
}
