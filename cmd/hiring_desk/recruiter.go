package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/server"
	"github.com/jonathan/hiring-desk/internal/types"
)

var recruiterCmd = &cobra.Command{
	Use:   "recruiter",
	Short: "Manage recruiter accounts",
}

var recruiterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a recruiter account",
	Long: `Create a recruiter who can sign in to the dashboard. Values not given as
flags are prompted for.`,
	RunE: runRecruiterCreate,
}

func init() {
	recruiterCreateCmd.Flags().String("name", "", "recruiter name")
	recruiterCreateCmd.Flags().String("email", "", "recruiter email")
	recruiterCreateCmd.Flags().String("company", "", "company name")
	recruiterCmd.AddCommand(recruiterCreateCmd)
	rootCmd.AddCommand(recruiterCmd)
}

var validate = validator.New()

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validEmail(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return errors.New("invalid email")
	}
	return nil
}

func validPassword(s string) error {
	if len(s) < 8 {
		return errors.New("at least 8 characters")
	}
	return nil
}

// ask prompts for a value unless one was already given.
func ask(value, label string, check promptui.ValidateFunc) (string, error) {
	if value != "" {
		return value, nil
	}
	p := promptui.Prompt{Label: label, Validate: check}
	return p.Run()
}

func askPassword() (string, error) {
	p := promptui.Prompt{Label: "Password", Mask: '*', Validate: validPassword}
	password, err := p.Run()
	if err != nil {
		return "", err
	}
	confirm := promptui.Prompt{
		Label: "Confirm password",
		Mask:  '*',
		Validate: func(s string) error {
			if s != password {
				return errors.New("passwords do not match")
			}
			return nil
		},
	}
	if _, err := confirm.Run(); err != nil {
		return "", err
	}
	return password, nil
}

func runRecruiterCreate(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	email, _ := flags.GetString("email")
	company, _ := flags.GetString("company")

	var err error
	if name, err = ask(name, "Name", notBlank); err != nil {
		return err
	}
	if email, err = ask(email, "Email", validEmail); err != nil {
		return err
	}
	if company, err = ask(company, "Company", nil); err != nil {
		return err
	}
	password, err := askPassword()
	if err != nil {
		return err
	}

	req := &types.CreateRecruiterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
		Company:  strings.TrimSpace(company),
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ctx := context.Background()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	pw, err := e.cfg.Password()
	if err != nil {
		return err
	}
	rec, err := server.NewRecruiterService(e.db, pw).Register(ctx, req)
	if err != nil {
		return err
	}
	e.logger.Info("recruiter created", zap.String("id", rec.ID.String()), zap.String("email", rec.Email))
	return nil
}
