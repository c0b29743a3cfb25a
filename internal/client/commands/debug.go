package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"pickchess/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})
}

func healthHandler(s Session, w io.Writer, args []string) error {
	resp, err := s.GetClient().Health()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(w, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(w, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Games:   %d\n", resp.Games)
	if resp.Storage != "" {
		fmt.Fprintf(w, "  Storage: %s\n", resp.Storage)
	}
	return nil
}

func urlHandler(s Session, w io.Writer, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(w, "Current API URL: %s\n", s.GetAPIBaseURL())
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.SetAPIBaseURL(url)
	s.GetClient().SetBaseURL(url)

	fmt.Fprintf(w, "%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}
