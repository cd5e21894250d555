package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/usecase"
)

// Checkbox options of the intake form
var (
	certificationOptions = []string{
		domain.CertVegan, domain.CertGlutenFree, domain.CertNonGMO, domain.CertKosher, domain.CertOrganic,
	}
	neighborhoodOptions = []string{
		"Williamsburg", "Greenpoint", "Lower East Side", "East Village", "Park Slope", "Bushwick",
	}
	storeTypeOptions = []string{
		"Cafés with grocery shelves",
		"Specialty grocers",
		"Italian/ethnic niche shops",
		"Health-oriented stores",
		"Bread/pastry-forward shops",
	}
	storeTraitOptions = []string{
		"Local/NYC-focused",
		"Imported specialty focus",
		"Frequent rotation of new products",
		"High-end/curated pricing",
		"Willingness to take risks on new brands",
	}
)

const promptDone = "done"

// prompter asks the seller one question at a time
type prompter interface {
	Input(label string, required bool, validate func(string) error) (string, error)
	Select(label string, items []string) (string, error)
	MultiSelect(label string, items []string) ([]string, error)
	Confirm(label string) (bool, error)
}

func newIntakeCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Fill in the seller intake form interactively and save it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			submission, err := collectSubmission(terminalPrompter{})
			if err != nil {
				return err
			}

			if err := writeSubmission(out, submission); err != nil {
				return err
			}

			opts.logger.Info("submission saved", zap.String("file", out))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved submission to %s. Run `%s match -s %s` to see your stores.\n", out, app, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "submission.json", "file to write the submission to")

	return cmd
}

// collectSubmission walks the four form sections and returns a submission
// that is known to normalize without error.
func collectSubmission(p prompter) (map[string]interface{}, error) {
	s := make(map[string]interface{})

	text := []struct {
		key      string
		label    string
		required bool
		validate func(string) error
	}{
		{"yourName", "Your name", true, nil},
		{"yourEmail", "Your email", true, validateEmail},
		{"businessName", "Business name", true, nil},
		{"productName", "Product name", true, nil},
	}
	for _, q := range text {
		v, err := p.Input(q.label, q.required, q.validate)
		if err != nil {
			return nil, err
		}
		s[q.key] = v
	}

	categories := make([]string, 0, len(domain.ProductCategories))
	for _, c := range domain.ProductCategories {
		categories = append(categories, string(c))
	}
	category, err := p.Select("Product category", categories)
	if err != nil {
		return nil, err
	}
	s["productCategory"] = category

	optional := []struct{ key, label string }{
		{"productSubCategory", "Sub-category (optional)"},
		{"msrp", "MSRP, e.g. $8-12 (optional)"},
		{"packaging", "Packaging / size (optional)"},
	}
	for _, q := range optional {
		v, err := p.Input(q.label, false, nil)
		if err != nil {
			return nil, err
		}
		s[q.key] = v
	}

	lists := []struct {
		key   string
		label string
		items []string
	}{
		{"storageRequirements", "Storage requirements", domain.StorageRequirements},
		{"certifications", "Certifications", certificationOptions},
	}
	for _, q := range lists {
		v, err := p.MultiSelect(q.label, q.items)
		if err != nil {
			return nil, err
		}
		s[q.key] = v
	}

	story, err := p.Input("Brand story", true, nil)
	if err != nil {
		return nil, err
	}
	s["brandStory"] = story

	links := []struct{ key, label string }{
		{"productWebsite", "Product website (optional)"},
		{"instagramHandle", "Instagram handle (optional)"},
		{"otherLinks", "Other links (optional)"},
	}
	for _, q := range links {
		v, err := p.Input(q.label, false, nil)
		if err != nil {
			return nil, err
		}
		s[q.key] = v
	}

	preferences := []struct {
		key   string
		label string
		items []string
	}{
		{"nycNeighborhoods", "NYC neighborhoods", neighborhoodOptions},
		{"storeTypes", "Store types", storeTypeOptions},
		{"storeTraits", "Store traits", storeTraitOptions},
	}
	for _, q := range preferences {
		v, err := p.MultiSelect(q.label, q.items)
		if err != nil {
			return nil, err
		}
		s[q.key] = v
	}

	agreed, err := p.Confirm("I agree to the terms and conditions")
	if err != nil {
		return nil, err
	}
	s["agreedToTerms"] = agreed

	raw, err := usecase.DecodeSubmission(s)
	if err != nil {
		return nil, err
	}
	if _, err := usecase.NormalizeProfile(raw); err != nil {
		return nil, err
	}

	return s, nil
}

func writeSubmission(path string, submission map[string]interface{}) error {
	data, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing submission: %w", err)
	}
	return nil
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a valid email address")
	}
	return nil
}

// terminalPrompter asks questions with promptui
type terminalPrompter struct{}

func (terminalPrompter) Input(label string, required bool, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if required && strings.TrimSpace(s) == "" {
				return errors.New("this field is required")
			}
			if validate != nil && strings.TrimSpace(s) != "" {
				return validate(s)
			}
			return nil
		},
	}
	v, err := prompt.Run()
	return strings.TrimSpace(v), err
}

func (terminalPrompter) Select(label string, items []string) (string, error) {
	prompt := promptui.Select{Label: label, Items: items}
	_, v, err := prompt.Run()
	return v, err
}

// MultiSelect repeats a select until the seller picks "done"
func (terminalPrompter) MultiSelect(label string, items []string) ([]string, error) {
	remaining := append([]string{}, items...)
	picked := []string{}

	for len(remaining) > 0 {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%s (pick %q to continue)", label, promptDone),
			Items: append([]string{promptDone}, remaining...),
		}
		idx, v, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		if v == promptDone {
			break
		}
		picked = append(picked, v)
		remaining = append(remaining[:idx-1], remaining[idx:]...)
	}

	return picked, nil
}

func (terminalPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
