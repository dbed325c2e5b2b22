package cli

import (
	"github.com/manifoldco/promptui"
)

// PromptYN asks a yes/no question on the terminal and returns true if the answer was affirmative.
// When stderr isn't a terminal there's nobody to ask, so it returns defaultYes straight away.
func PromptYN(msg string, defaultYes bool) bool {
	if !StdErrIsATerminal {
		log.Debug("Not prompting for %q, assuming %v", msg, defaultYes)
		return defaultYes
	}
	prompt := promptui.Prompt{
		Label:     msg,
		IsConfirm: true,
		Default:   "N",
	}
	if defaultYes {
		prompt.Default = "Y"
	}
	switch _, err := prompt.Run(); err {
	case nil:
		return true
	case promptui.ErrAbort:
		return false // They answered n, or took a default of n.
	case promptui.ErrInterrupt:
		return false
	default:
		log.Warning("Failed to read answer: %s", err)
		return defaultYes
	}
}
