package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RoomCodeView renders the shareable room code in a prominent box.
func RoomCodeView(code string) string {
	content := fmt.Sprintf("%s Share this code with your partner\n\n%s %s",
		IconLink,
		IconKey, BoldStyle.Foreground(Primary).Render(code),
	)
	return CodeBoxStyle.Render(content)
}

func RenderRoomCode(code string) {
	fmt.Println(RoomCodeView(code))
}

// PairedView renders the post-pairing confirmation box.
func PairedView(partnerID string) string {
	content := fmt.Sprintf("%s Devices paired!\n\n%s Partner: %s",
		IconHeart,
		IconPeer, BoldStyle.Render(partnerID),
	)
	return SuccessBoxStyle.Render(content)
}

func RenderPaired(partnerID string) {
	fmt.Println(PairedView(partnerID))
}

// StatusRow is one row of the pairing status table.
type StatusRow struct {
	Name  string
	Value string
}

// StatusView renders pairing state as a two-column table.
func StatusView(rows []StatusRow) string {
	tableRows := make([][]string, len(rows))
	for i, r := range rows {
		tableRows[i] = []string{r.Name, r.Value}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers("Setting", "Value").
		Rows(tableRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row%2 == 0:
				return TableRowStyle
			default:
				return TableRowAltStyle
			}
		})

	return tbl.Render()
}

func RenderStatus(rows []StatusRow) {
	fmt.Println(StatusView(rows))
}
