// Package ui implements the interactive configuration wizard using bubbletea's Elm architecture.
//
// The (view) [Model] renders the current [wizard.Question] with a view per question kind:
//  1. [SelectView] : Pick an option from a charmbracelet/bubbles list
//  2. [ConfirmView] : Answer yes or no with y/n, enter takes the default
//  3. [TextView] : Type a value, enter on an empty input takes the default
//  4. [LoadingView] : Spinner while the wizard talks to the Photos API
//
// Answers are submitted from a [tea.Cmd] and the next question arrives as a [Msg]. When an answer is rejected the
// error is shown inline and the same question is asked again.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
