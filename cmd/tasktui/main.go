// tasktui is a terminal client for the task manager API. It keeps a
// local copy of the task list, recomputes the filtered/sorted view on
// every change, and talks to the server only for mutations and
// refreshes. Manual reordering is view-only and never persisted.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HailuBoc/student-task-manager/internal/client"
)

func main() {
	baseURL := os.Getenv("TASK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	prefs, err := client.LoadPrefs(os.Getenv("TASK_PREFS_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "prefs: %v\n", err)
		os.Exit(1)
	}

	api := client.New(baseURL)
	p := tea.NewProgram(newModel(api, prefs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tasktui: %v\n", err)
		os.Exit(1)
	}
}
