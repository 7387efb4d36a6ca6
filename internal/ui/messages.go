package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Messages emitted by the controller through programView
type (
	resultMsg          string
	failureMsg         string
	statusMsg          string
	alertMsg           string
	copyLabelMsg       string
	analyzingMsg       bool
	generateEnabledMsg bool
	copyEnabledMsg     bool
)

// Completion messages for controller operations run as commands
type (
	loadDoneMsg struct {
		err error
	}

	generateDoneMsg struct {
		accepted bool
		err      error
	}

	copyDoneMsg struct {
		err error
	}
)

// programView forwards controller view updates into the bubbletea update
// loop, so model state is only ever changed by Update.
type programView struct {
	send func(tea.Msg)
}

func (v *programView) ShowResult(text string)          { v.send(resultMsg(text)) }
func (v *programView) ShowFailure(text string)         { v.send(failureMsg(text)) }
func (v *programView) ShowStatus(text string)          { v.send(statusMsg(text)) }
func (v *programView) SetAnalyzing(active bool)        { v.send(analyzingMsg(active)) }
func (v *programView) SetGenerateEnabled(enabled bool) { v.send(generateEnabledMsg(enabled)) }
func (v *programView) SetCopyEnabled(enabled bool)     { v.send(copyEnabledMsg(enabled)) }
func (v *programView) ShowCopyLabel(label string)      { v.send(copyLabelMsg(label)) }
func (v *programView) Alert(message string)            { v.send(alertMsg(message)) }
