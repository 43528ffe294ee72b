package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

const minPasswordLength = 8

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first admin, the base currency and the first shift",
	Long: `Prepares an empty database for use. Each step is skipped when its record already exists,
so running bootstrap twice is harmless.

The admin password is read from the terminal. When stdin is not a terminal, or with
--generate-password, a random password is generated and printed once.`,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().String("username", "admin", "admin username")
	bootstrapCmd.Flags().Bool("generate-password", false, "generate a random admin password")
	bootstrapCmd.Flags().String("base-balance", "0", "opening balance of the base currency")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	username, _ := cmd.Flags().GetString("username")
	generate, _ := cmd.Flags().GetBool("generate-password")
	balanceFlag, _ := cmd.Flags().GetString("base-balance")

	baseBalance, err := decimal.NewFromString(balanceFlag)
	if err != nil {
		return fmt.Errorf("invalid --base-balance %q: %w", balanceFlag, err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	admin, err := ensureAdmin(ctx, a, out, username, generate)
	if err != nil {
		return err
	}
	if err := ensureBaseCurrency(ctx, a, out, baseBalance, admin.UserID); err != nil {
		return err
	}
	return ensureOpenShift(ctx, a, out, admin.UserID)
}

func ensureAdmin(ctx context.Context, a *app, out io.Writer, username string, generate bool) (*domain.User, error) {
	existing, err := a.services.User.GetUserByUsername(ctx, username)
	if err == nil {
		fmt.Fprintf(out, "%s admin %q already exists\n", color.YellowString("skip"), existing.Username)
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	password, generated, err := adminPassword(generate)
	if err != nil {
		return nil, err
	}
	admin, err := a.services.User.CreateUser(ctx, dto.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     domain.RoleAdmin,
	}, "")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s admin %q\n", color.GreenString("created"), admin.Username)
	if generated {
		fmt.Fprintf(out, "  password: %s\n", color.New(color.Bold).Sprint(password))
	}
	return admin, nil
}

func adminPassword(generate bool) (password string, generated bool, err error) {
	fd := int(os.Stdin.Fd())
	if generate || !term.IsTerminal(fd) {
		password, err = utils.GenerateTemporaryPassword(16)
		return password, true, err
	}

	fmt.Fprint(os.Stderr, "Admin password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", false, fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", false, fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", false, errors.New("passwords do not match")
	}
	if len(strings.TrimSpace(string(first))) < minPasswordLength {
		return "", false, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return string(first), false, nil
}

func ensureBaseCurrency(ctx context.Context, a *app, out io.Writer, balance decimal.Decimal, adminID string) error {
	currencies, err := a.services.Currency.ListCurrencies(ctx)
	if err != nil {
		return err
	}
	for _, c := range currencies {
		if c.IsBase(cfg.BaseCurrencyName) {
			fmt.Fprintf(out, "%s base currency %q already exists\n", color.YellowString("skip"), c.Name)
			return nil
		}
	}

	base, err := a.services.Currency.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		Name:    cfg.BaseCurrencyName,
		Balance: balance,
	}, adminID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s base currency %q with %s\n", color.GreenString("created"), base.Name,
		utils.FormatMoney(base.Balance, base.Name))
	return nil
}

func ensureOpenShift(ctx context.Context, a *app, out io.Writer, adminID string) error {
	active, err := a.services.Shift.GetActiveShift(ctx)
	if err == nil {
		fmt.Fprintf(out, "%s shift %s is already open\n", color.YellowString("skip"), active.ShiftID)
		return nil
	}
	if !errors.Is(err, apperrors.ErrNoActiveShift) {
		return err
	}

	shiftID, err := a.services.Shift.CloseShift(ctx, dto.CloseShiftRequest{}, adminID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s shift %s\n", color.GreenString("opened"), shiftID)
	return nil
}
