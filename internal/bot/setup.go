package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-resty/resty/v2"
	"github.com/raine/listing-genius/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org"
	geminiAPIBaseURL   = "https://generativelanguage.googleapis.com"
)

var setupHTTPClient = resty.New().SetDebug(false).SetTimeout(10 * time.Second)

// envFileOrder is the order in which values are written to the config file.
var envFileOrder = []string{"BOT_TOKEN", "GEMINI_API_KEY", "GEMINI_MODEL", "ADMIN_TELEGRAM_ID", "ALLOWED_TELEGRAM_IDS"}

// secretEnvVars are masked when the saved configuration is printed.
var secretEnvVars = map[string]bool{"BOT_TOKEN": true, "GEMINI_API_KEY": true}

// geminiModelOptions are offered by the wizard. The first one is the default.
var geminiModelOptions = []huh.Option[string]{
	huh.NewOption("Gemini 2.5 Flash (fast, low cost)", "gemini-2.5-flash"),
	huh.NewOption("Gemini 2.5 Pro (slower, more thorough market research)", "gemini-2.5-pro"),
}

// CheckRequiredConfig returns the names of any missing required variables.
func CheckRequiredConfig() []string {
	return config.MissingForBot()
}

// IsInteractiveTerminal returns true if both stdin and stdout are TTYs.
// This is used to determine if we can run the interactive setup wizard.
func IsInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// RunSetupWizard asks for the bot configuration, prefilled with whatever is
// already set, and saves it to config.env. Returns true if the bot should
// continue starting.
func RunSetupWizard() bool {
	bannerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("99")).
		Padding(0, 2)

	fmt.Println()
	fmt.Println(bannerStyle.Render("🛍  Listing Genius setup"))
	fmt.Println()

	botToken := os.Getenv("BOT_TOKEN")
	geminiKey := config.Getenv("GEMINI_API_KEY")
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = geminiModelOptions[0].Value
	}
	adminID := os.Getenv("ADMIN_TELEGRAM_ID")
	allowedIDs := os.Getenv("ALLOWED_TELEGRAM_IDS")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Turn a short item description into a ready-to-post listing").
				Description(fmt.Sprintf("Still missing: %s\nAnswers are saved to your user config directory.",
					strings.Join(CheckRequiredConfig(), ", "))),
			huh.NewInput().
				Title("Telegram bot token").
				Description("Create a bot with @BotFather (/newbot) and paste its token").
				Placeholder("123456789:AA...").
				Value(&botToken).
				Validate(requiredValue("bot token", func(s string) error {
					return validateTelegramToken(telegramAPIBaseURL, s)
				})),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Used for the Google Search grounded price research: https://aistudio.google.com/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&geminiKey).
				Validate(requiredValue("API key", func(s string) error {
					return validateGeminiKey(geminiAPIBaseURL, s)
				})),
			huh.NewSelect[string]().
				Title("Model").
				Options(geminiModelOptions...).
				Value(&model),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Your Telegram user ID").
				Description("Ask @userinfobot. Only you and the IDs below may use the bot").
				Value(&adminID).
				Validate(requiredValue("user ID", validateTelegramID)),
			huh.NewInput().
				Title("Other allowed user IDs (optional)").
				Description("Comma-separated, e.g. family members who sell too").
				Value(&allowedIDs).
				Validate(validateAllowedIDs),
		),
	).WithTheme(huh.ThemeBase16())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\nSetup cancelled, nothing was saved.")
			return false
		}
		fmt.Printf("\nError: %v\n", err)
		return false
	}

	values := map[string]string{
		"BOT_TOKEN":            strings.TrimSpace(botToken),
		"GEMINI_API_KEY":       strings.TrimSpace(geminiKey),
		"GEMINI_MODEL":         model,
		"ADMIN_TELEGRAM_ID":    strings.TrimSpace(adminID),
		"ALLOWED_TELEGRAM_IDS": strings.TrimSpace(allowedIDs),
	}

	configPath, err := config.ConfigFilePath()
	if err == nil {
		err = writeEnvFile(configPath, values)
	}
	if err != nil {
		fmt.Printf("\nError saving configuration: %v\n", err)
		WaitOnWindows()
		return false
	}

	for k, v := range values {
		os.Setenv(k, v)
	}

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)

	fmt.Println()
	fmt.Println(okStyle.Render("✓ Saved to " + configPath))
	for _, key := range envFileOrder {
		if values[key] == "" {
			continue
		}
		fmt.Println("  " + keyStyle.Render(key) + displayValue(key, values[key]))
	}
	fmt.Println()
	fmt.Println("Starting bot, send it an item description on Telegram.")
	fmt.Println()

	return true
}

// requiredValue rejects blank input, then runs check on the trimmed value.
func requiredValue(what string, check func(string) error) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%s is required", what)
		}
		if check == nil {
			return nil
		}
		return check(s)
	}
}

func validateTelegramID(s string) error {
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return errors.New("must be a number")
	}
	return nil
}

func validateAllowedIDs(s string) error {
	if _, err := config.ParseIDList(s); err != nil {
		return errors.New("must be numbers separated by commas")
	}
	return nil
}

// displayValue masks secrets down to their last four characters.
func displayValue(key, value string) string {
	if !secretEnvVars[key] {
		return value
	}
	r := []rune(value)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", 8) + string(r[len(r)-4:])
}

// validateTelegramToken validates a Telegram bot token by calling the getMe API.
func validateTelegramToken(baseURL, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
	}

	_, err := setupHTTPClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&result).
		Get(fmt.Sprintf("%s/bot%s/getMe", baseURL, token))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.New("connection timed out - check your internet")
		}
		return errors.New("connection failed - check your internet")
	}

	if !result.OK {
		if result.Description != "" {
			return errors.New(result.Description)
		}
		return errors.New("token rejected by Telegram")
	}

	return nil
}

// validateGeminiKey validates a Gemini API key by listing models, which is
// lightweight and requires a valid key.
func validateGeminiKey(baseURL, key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	res, err := setupHTTPClient.R().
		SetContext(ctx).
		SetQueryParam("key", key).
		SetError(&apiErr).
		Get(baseURL + "/v1beta/models")
	if err != nil {
		return errors.New("connection failed - check your internet")
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		if apiErr.Error.Message != "" {
			return errors.New(apiErr.Error.Message)
		}
		return fmt.Errorf("API key rejected (HTTP %d)", res.StatusCode())
	default:
		return fmt.Errorf("unexpected response (HTTP %d)", res.StatusCode())
	}
}

// writeEnvFile writes the configuration to path.
// Uses restrictive permissions (0600) since the file contains secrets.
func writeEnvFile(path string, values map[string]string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	// Write in a consistent order, quoting values to handle special characters
	for _, key := range envFileOrder {
		if val := values[key]; val != "" {
			if _, err := fmt.Fprintf(f, "%s=%q\n", key, val); err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
		}
	}

	return nil
}

// WaitOnWindows pauses execution on Windows so users can see error messages
// before the console window closes.
func WaitOnWindows() {
	if runtime.GOOS == "windows" {
		fmt.Println()
		fmt.Println("Press Enter to exit...")
		fmt.Scanln()
	}
}

// FatalWithWait logs a fatal error and waits on Windows before exiting.
func FatalWithWait(format string, args ...any) {
	log.Error().Msgf(format, args...)
	WaitOnWindows()
	os.Exit(1)
}
