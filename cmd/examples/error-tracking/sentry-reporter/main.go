package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-reactiv/reactiv/pkg/reactiv"
	"github.com/go-reactiv/reactiv/pkg/reactiv/observability"
)

// form holds the registration form's reactive state, built directly from
// Ref/Computed primitives rather than a component framework.
type form struct {
	username     *reactiv.Ref[string]
	email        *reactiv.Ref[string]
	password     *reactiv.Ref[string]
	currentField *reactiv.Ref[int] // 0: username, 1: email, 2: password
	errorMessage *reactiv.Ref[string]
	submitCount  *reactiv.Ref[int]
	isValid      *reactiv.Computed[bool]
}

func newForm() *form {
	username := reactiv.NewRef("")
	email := reactiv.NewRef("")
	password := reactiv.NewRef("")

	f := &form{
		username:     username,
		email:        email,
		password:     password,
		currentField: reactiv.NewRef(0),
		errorMessage: reactiv.NewRef(""),
		submitCount:  reactiv.NewRef(0),
	}

	f.isValid = reactiv.NewComputed(func() bool {
		return len(username.Get()) >= 3 && len(email.Get()) >= 5 && len(password.Get()) >= 8
	})

	observability.RecordBreadcrumb("component", "RegistrationForm initialized", map[string]interface{}{
		"fields": []string{"username", "email", "password"},
	})

	return f
}

func (f *form) input(char string) {
	switch f.currentField.Get() {
	case 0:
		f.username.Set(f.username.Get() + char)
		observability.RecordBreadcrumb("state", "Username updated", map[string]interface{}{
			"field": "username", "length": len(f.username.Get()),
		})
	case 1:
		f.email.Set(f.email.Get() + char)
		observability.RecordBreadcrumb("state", "Email updated", map[string]interface{}{
			"field": "email", "length": len(f.email.Get()),
		})
	case 2:
		f.password.Set(f.password.Get() + char)
		observability.RecordBreadcrumb("state", "Password updated", map[string]interface{}{
			"field": "password", "length": len(f.password.Get()),
		})
	}
}

func (f *form) backspace() {
	switch f.currentField.Get() {
	case 0:
		if u := f.username.Get(); len(u) > 0 {
			f.username.Set(u[:len(u)-1])
		}
	case 1:
		if e := f.email.Get(); len(e) > 0 {
			f.email.Set(e[:len(e)-1])
		}
	case 2:
		if p := f.password.Get(); len(p) > 0 {
			f.password.Set(p[:len(p)-1])
		}
	}
}

func (f *form) nextField() {
	field := f.currentField.Get()
	if field < 2 {
		f.currentField.Set(field + 1)
		observability.RecordBreadcrumb("navigation", "Moved to next field", map[string]interface{}{
			"from": field, "to": field + 1,
		})
	}
}

func (f *form) prevField() {
	field := f.currentField.Get()
	if field > 0 {
		f.currentField.Set(field - 1)
		observability.RecordBreadcrumb("navigation", "Moved to previous field", map[string]interface{}{
			"from": field, "to": field - 1,
		})
	}
}

// reportWithContext routes err through the configured reporter using the
// same OnError shape the engine itself invokes from WithOnError.
func reportWithContext(err error, phase string, extra map[string]interface{}) {
	reporter := observability.GetErrorReporter()
	if reporter == nil {
		return
	}
	reporter.ReportError(err, &observability.ErrorContext{
		WatcherName: "RegistrationForm",
		Phase:       phase,
		Timestamp:   time.Now(),
		Tags: map[string]string{
			"environment": "production",
			"form_type":   "registration",
		},
		Extra:       extra,
		Breadcrumbs: observability.GetBreadcrumbs(),
	})
}

func (f *form) submit() {
	valid := f.isValid.Value()
	count := f.submitCount.Get()
	f.submitCount.Set(count + 1)

	observability.RecordBreadcrumb("user", "Form submission attempted", map[string]interface{}{
		"valid":       valid,
		"submitCount": count + 1,
		"usernameLen": len(f.username.Get()),
		"emailLen":    len(f.email.Get()),
		"passwordLen": len(f.password.Get()),
	})

	if !valid {
		f.errorMessage.Set("Validation failed: Check all fields")
		reportWithContext(fmt.Errorf("form validation failed"), "submit", map[string]interface{}{
			"username_length": len(f.username.Get()),
			"email_length":    len(f.email.Get()),
			"password_length": len(f.password.Get()),
			"submit_count":    count + 1,
		})
		observability.RecordBreadcrumb("error", "Validation failed", map[string]interface{}{
			"reason": "invalid_fields",
		})
		return
	}

	f.errorMessage.Set("Success! Form submitted")
	observability.RecordBreadcrumb("state", "Form submitted successfully", map[string]interface{}{
		"username": f.username.Get(),
		"email":    f.email.Get(),
	})
}

func (f *form) triggerError() {
	observability.RecordBreadcrumb("debug", "About to trigger error", map[string]interface{}{
		"intentional": true,
	})
	reportWithContext(fmt.Errorf("intentional error for demonstration: invalid operation"), "trigger-error", map[string]interface{}{
		"test_mode": true,
		"form_state": map[string]interface{}{
			"username": f.username.Get(),
			"email":    f.email.Get(),
		},
	})
	f.errorMessage.Set("Error reported to Sentry!")
}

// triggerPanic demonstrates the engine's own panic recovery: the Effect's
// fn panics, Run recovers it, and WithOnError forwards it to the reporter
// exactly the way a real Effect/Computed/watch panic would be handled.
func (f *form) triggerPanic() {
	observability.RecordBreadcrumb("debug", "About to trigger panic", map[string]interface{}{
		"intentional": true,
		"form_state": map[string]interface{}{
			"username": f.username.Get(),
			"email":    f.email.Get(),
		},
	})

	e := reactiv.NewEffect(func() {
		panic("intentional panic for Sentry demonstration")
	}, reactiv.WithOnError(func(err error, phase reactiv.Phase) {
		reportWithContext(err, phase.String(), map[string]interface{}{
			"intentional": true,
		})
	}))
	_ = e.Run()

	f.errorMessage.Set("Panic reported to Sentry!")
}

type model struct {
	form *form
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		observability.RecordBreadcrumb("user", "User pressed tab to switch field", nil)
		m.form.nextField()
	case "shift+tab":
		observability.RecordBreadcrumb("user", "User pressed shift+tab to go back", nil)
		m.form.prevField()
	case "enter":
		observability.RecordBreadcrumb("user", "User submitted form", map[string]interface{}{
			"action": "submit",
		})
		m.form.submit()
	case "backspace":
		m.form.backspace()
	case "e":
		observability.RecordBreadcrumb("user", "User triggered error (for testing)", map[string]interface{}{
			"action": "error_test",
		})
		m.form.triggerError()
	case "p":
		observability.RecordBreadcrumb("user", "User triggered panic (for testing)", map[string]interface{}{
			"action": "panic_test",
		})
		m.form.triggerPanic()
	default:
		if len(keyMsg.String()) == 1 {
			m.form.input(keyMsg.String())
		}
	}

	return m, nil
}

func (m model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	title := titleStyle.Render("Error Tracking - Sentry Reporter (Production)")

	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("63")).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("99")).
		Width(40)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(40)

	f := m.form
	field := f.currentField.Get()

	usernameStyle := inactiveStyle
	if field == 0 {
		usernameStyle = activeStyle
	}
	usernameBox := usernameStyle.Render(fmt.Sprintf("Username: %s", f.username.Get()))

	emailStyle := inactiveStyle
	if field == 1 {
		emailStyle = activeStyle
	}
	emailBox := emailStyle.Render(fmt.Sprintf("Email: %s", f.email.Get()))

	passwordStyle := inactiveStyle
	if field == 2 {
		passwordStyle = activeStyle
	}
	masked := ""
	for range f.password.Get() {
		masked += "*"
	}
	passwordBox := passwordStyle.Render(fmt.Sprintf("Password: %s", masked))

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Padding(1, 2).
		Width(40)

	validVal := f.isValid.Value()
	statusText := "Valid"
	if !validVal {
		statusStyle = statusStyle.Foreground(lipgloss.Color("203"))
		statusText = "Invalid (min: user=3, email=5, pass=8)"
	}
	statusBox := statusStyle.Render(statusText)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")).
		Padding(0, 2).
		Width(40)

	errorVal := f.errorMessage.Get()
	if errorVal == "Success! Form submitted" {
		errorStyle = errorStyle.Foreground(lipgloss.Color("86"))
	}

	errorBox := ""
	if errorVal != "" {
		errorBox = errorStyle.Render(errorVal)
	}

	breadcrumbs := observability.GetBreadcrumbs()
	breadcrumbStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")).
		Padding(1, 2).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("141")).
		Width(40).
		Height(6)

	breadcrumbText := "Recent Activity:\n"
	start := len(breadcrumbs) - 4
	if start < 0 {
		start = 0
	}
	for i := start; i < len(breadcrumbs); i++ {
		bc := breadcrumbs[i]
		breadcrumbText += fmt.Sprintf("- [%s] %s\n", bc.Category, bc.Message)
	}
	breadcrumbBox := breadcrumbStyle.Render(breadcrumbText)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(2)

	help := helpStyle.Render(
		"tab/shift+tab: switch fields - enter: submit - e: error test - p: panic test - q: quit",
	)

	result := lipgloss.JoinVertical(
		lipgloss.Left,
		usernameBox,
		emailBox,
		passwordBox,
		"",
		statusBox,
	)
	if errorBox != "" {
		result = lipgloss.JoinVertical(lipgloss.Left, result, errorBox)
	}
	result = lipgloss.JoinVertical(lipgloss.Left, result, "", breadcrumbBox)

	return fmt.Sprintf("%s\n\n%s\n%s\n", title, result, help) + help
}

func main() {
	// Setup Sentry reporter for production.
	// In production, use: os.Getenv("SENTRY_DSN")
	// For this example, we use an empty DSN (won't send to Sentry, but
	// demonstrates the API).
	reporter, err := observability.NewSentryReporter(
		"",
		observability.WithEnvironment("production"),
		observability.WithRelease("v1.0.0"),
		observability.WithDebug(true),
	)
	if err != nil {
		fmt.Printf("Error creating Sentry reporter: %v\n", err)
		os.Exit(1)
	}

	observability.SetErrorReporter(reporter)
	defer reporter.Flush(5 * time.Second)

	observability.RecordBreadcrumb("navigation", "Application started", map[string]interface{}{
		"example": "sentry-reporter",
		"mode":    "production",
	})

	m := model{form: newForm()}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	observability.RecordBreadcrumb("navigation", "Application exited", nil)
}
