package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dariafung/fotex/internal/errinfo"
	"github.com/dariafung/fotex/internal/rpc"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

// callError turns a failed method call into a CLI error carrying the code.
func callError(rpcErr *rpc.Error) error {
	var info *errinfo.ErrorInfo
	if data, ok := rpcErr.Data.(*errinfo.ErrorInfo); ok {
		info = data
	}
	if info == nil {
		return errors.New(rpcErr.Message)
	}
	return fmt.Errorf("%s: %s", info.ErrorCode, info.Message())
}
