package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/services"
)

// prompt reads one trimmed line. ok is false when input is exhausted.
func (c *Console) prompt(label string) (value string, ok bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptID reads a numeric id; zero means the user left it blank.
func (c *Console) promptID(label string) (int64, bool) {
	value, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	if value == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Not a number.")
		return 0, true
	}
	return id, true
}

// confirm asks before a destructive action. Anything but y/yes declines.
func (c *Console) confirm(question string) bool {
	answer, ok := c.prompt(question + " [y/N] ")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *Console) success(format string, args ...any) {
	fmt.Fprintf(c.out, "✔ "+format+"\n", args...)
}

// failure renders an error the way the user should see it: validation and
// permission problems as plain guidance, backend envelope messages as-is.
func (c *Console) failure(err error) {
	var apiErr *api.APIError
	switch {
	case services.IsValidation(err):
		fmt.Fprintf(c.out, "✘ %s\n", err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		fmt.Fprintln(c.out, "✘ You do not have permission for that.")
	case errors.Is(err, services.ErrNotAuthenticated):
		fmt.Fprintln(c.out, "✘ Please sign in first.")
	case errors.As(err, &apiErr):
		fmt.Fprintf(c.out, "✘ %s\n", apiErr.Error())
	default:
		fmt.Fprintf(c.out, "✘ %s\n", err.Error())
	}
}
