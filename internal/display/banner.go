package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

const banner = `     _           _
  __| |_   _ ___| |_ ___  _ __   __ _  ___
 / _` + "`" + ` | | | / __| __/ _ \| '_ \ / _` + "`" + ` |/ __|
| (_| | |_| \__ \ || (_) | |_) | (_| | (__
 \__,_|\__,_|___/\__\___/| .__/ \__,_|\___|
                         |_|`

// PrintBanner prints the ASCII art banner. colored selects the styled
// rendering; lipgloss handles terminal capability downgrades itself.
func PrintBanner(colored bool) {
	if colored {
		fmt.Fprintln(os.Stdout, bannerStyle.Render(banner))
		return
	}
	fmt.Fprintln(os.Stdout, banner)
}
