package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	AppEmoji     = "📈"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
	StatsEmoji   = Accent.Sprint("📊")
)

var activeSpinner *SmartSpinner

// SmartSpinner is a spinner with enhanced capabilities
type SmartSpinner struct {
	spinner *spinner.Spinner
}

// NewSmartSpinner creates a new spinner with an initial message
func NewSmartSpinner(initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+AppEmoji+" "+initialMessage),
		spinner.WithWriter(os.Stderr),
	)
	return &SmartSpinner{spinner: s}
}

// Start starts the spinner and registers it as the globally active spinner.
func (s *SmartSpinner) Start() {
	activeSpinner = s
	s.spinner.Start()
}

// Stop stops the spinner and clears the active spinner record.
func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
	if activeSpinner == s {
		activeSpinner = nil
	}
}

// StopActiveSpinner stops the currently active spinner in the terminal session.
func StopActiveSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + AppEmoji + " " + msg
	s.spinner.Unlock()
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(os.Stdout, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(os.Stdout, msg)
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", RocketEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintDuration(w io.Writer, msg string, duration time.Duration) {
	durationStr := Dim.Sprintf("(%s)", duration.Round(10*time.Millisecond))
	_, _ = fmt.Fprintf(w, "%s %s %s\n", SuccessEmoji, Success.Sprint(msg), durationStr)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError prints err in a friendly way. GitHub API errors and
// validation errors show their user message; AppErrors show type, details
// and suggestion. If translations is nil, English defaults are used.
func HandleAppError(w io.Writer, err error, translations ...*i18n.Translations) {
	if err == nil {
		return
	}

	var t *i18n.Translations
	if len(translations) > 0 && translations[0] != nil {
		t = translations[0]
	}
	dimColor := color.New(color.FgHiBlack)

	var vErr *domainErrors.ValidationError
	if errors.As(err, &vErr) {
		PrintWarning(w, vErr.Message)
		return
	}

	var apiErr *domainErrors.APIError
	if errors.As(err, &apiErr) {
		_, _ = fmt.Fprintln(w)
		PrintError(w, apiErr.Message)
		if apiErr.StatusCode != 0 {
			_, _ = dimColor.Fprintf(w, "   HTTP %d\n", apiErr.StatusCode)
		}
		if hint := apiErrorHint(apiErr.Kind, t); hint != "" {
			printSuggestion(w, hint, t)
		}
		_, _ = fmt.Fprintln(w)
		return
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		errorColor := color.New(color.FgRed, color.Bold)

		_, _ = fmt.Fprintln(w)
		_, _ = errorColor.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

		if appErr.Err != nil {
			_, _ = dimColor.Fprintf(w, "   Details: %v\n", appErr.Err)
		}

		if appErr.Suggestion != "" {
			printSuggestion(w, appErr.Suggestion, t)
		}
		_, _ = fmt.Fprintln(w)
		return
	}

	PrintError(w, err.Error())
}

func printSuggestion(w io.Writer, suggestion string, t *i18n.Translations) {
	suggestionColor := color.New(color.FgCyan)

	_, _ = fmt.Fprintln(w)
	tryPrefix := "💡 Try: "
	if t != nil {
		tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
	}
	_, _ = suggestionColor.Fprintf(w, "%s", tryPrefix)
	lines := strings.Split(suggestion, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintln(w, line)
		} else {
			_, _ = fmt.Fprintf(w, "       %s\n", line)
		}
	}
}

func apiErrorHint(kind domainErrors.APIKind, t *i18n.Translations) string {
	if t == nil {
		return ""
	}
	id := "api_error_hint." + string(kind)
	if !t.Has(id) {
		return ""
	}
	return t.GetMessage(id, 0, nil)
}

// AskConfirmation reads a yes/no answer from r.
func AskConfirmation(w io.Writer, r io.Reader, question string) bool {
	_, _ = fmt.Fprintf(w, "\n%s (y/n): ", Info.Sprint(question))
	var response string
	_, _ = fmt.Fscanln(r, &response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes" || response == "s" || response == "si" || response == "sí"
}

// WithSpinnerAndDuration runs fn behind a spinner and reports how long it took.
func WithSpinnerAndDuration(w io.Writer, message, doneMessage string, fn func(s *SmartSpinner) error) error {
	s := NewSmartSpinner(message)
	s.Start()

	start := time.Now()
	err := fn(s)
	duration := time.Since(start)

	s.Stop()
	if err != nil {
		return err
	}

	PrintDuration(w, doneMessage, duration)
	return nil
}
