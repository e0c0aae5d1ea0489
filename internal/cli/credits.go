package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ai-imagegen-be/internal/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(settleCmd)

	grantCmd.Flags().StringP("notes", "n", "", "Reason recorded on the ledger entry")
	ledgerCmd.Flags().IntP("limit", "l", 20, "Number of entries to show")
}

var balanceCmd = &cobra.Command{
	Use:   "balance USER",
	Short: "Show the credit balance of a user (id or email)",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		user, err := e.resolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		balance, err := e.container.Ledger.GetBalance(ctx, user.Id)
		if err != nil {
			return err
		}
		color.Cyan("%s <%s>", user.FullName, user.Email)
		fmt.Fprintf(cmd.OutOrStdout(), "id:      %s\nbalance: %d\n", user.Id, balance)
		return nil
	}),
}

var grantCmd = &cobra.Command{
	Use:   "grant USER AMOUNT",
	Short: "Add credits to a user outside of a purchase",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[1])
		if err != nil || amount <= 0 {
			return fmt.Errorf("amount must be a positive integer, got %q", args[1])
		}
		notes, _ := cmd.Flags().GetString("notes")

		user, err := e.resolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		balance, err := e.container.UserService.GrantCredits(ctx, user.Id, amount, notes)
		if err != nil {
			return err
		}
		color.Green("Granted %d credits to %s, balance is now %d", amount, user.Email, balance)
		return nil
	}),
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger USER",
	Short: "List recent balance changes of a user",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		user, err := e.resolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		entries, err := e.container.UserService.GetLedger(ctx, user.Id, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			color.Yellow("No ledger entries for %s", user.Email)
			return nil
		}

		out := cmd.OutOrStdout()
		for _, entry := range entries {
			amount := color.GreenString("%+d", entry.Amount)
			if entry.Amount < 0 {
				amount = color.RedString("%+d", entry.Amount)
			}
			ref := "-"
			if entry.ReferenceId != nil {
				ref = entry.ReferenceId.String()
			}
			fmt.Fprintf(out, "%s  %-8s %6s  balance=%-6d ref=%s\n",
				entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Kind, amount, entry.BalanceAfter, ref)
		}
		return nil
	}),
}

// settleCmd replays a gateway confirmation. Safe to run repeatedly.
var settleCmd = &cobra.Command{
	Use:   "settle ORDER_ID",
	Short: "Verify a gateway order and credit it if it has not been credited",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		res, err := e.container.PaymentService.VerifyAndSettle(ctx, args[0], nil)
		switch {
		case err == nil:
		case errors.Is(err, entity.ErrPaymentNotCompleted):
			color.Yellow("Order %s is not paid yet", args[0])
			return nil
		default:
			return err
		}

		if res.AlreadySettled {
			color.Yellow("Order %s was already credited, balance %d", args[0], res.Credits)
			return nil
		}
		color.Green("Order %s credited, balance %d", args[0], res.Credits)
		return nil
	}),
}
