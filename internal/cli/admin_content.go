package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/n0roo/audit-kit/internal/content"
)

var (
	adminTitle       string
	adminDescription string
	adminIcon        string
	adminColor       string
	adminText        string
	adminPriority    string
	adminGuidance    string
	adminForce       bool
)

var adminFrameworkCmd = &cobra.Command{
	Use:   "framework",
	Short: "Manage frameworks",
}

var adminFrameworkAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a framework",
	RunE:  runFrameworkAdd,
}

var adminFrameworkEditCmd = &cobra.Command{
	Use:   "edit <framework>",
	Short: "Edit a framework",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkEdit,
}

var adminFrameworkDeleteCmd = &cobra.Command{
	Use:   "delete <framework>",
	Short: "Delete a framework and its responses",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkDelete,
}

var adminFrameworkImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import a framework from YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkImport,
}

var adminFrameworkExportCmd = &cobra.Command{
	Use:   "export <framework> <file.yaml>",
	Short: "Export a framework to YAML",
	Args:  cobra.ExactArgs(2),
	RunE:  runFrameworkExport,
}

var adminSectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage sections",
}

var adminSectionAddCmd = &cobra.Command{
	Use:   "add <framework>",
	Short: "Add a section",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionAdd,
}

var adminSectionEditCmd = &cobra.Command{
	Use:   "edit <framework> <section>",
	Short: "Edit a section",
	Args:  cobra.ExactArgs(2),
	RunE:  runSectionEdit,
}

var adminSectionDeleteCmd = &cobra.Command{
	Use:   "delete <framework> <section>",
	Short: "Delete a section and its responses",
	Args:  cobra.ExactArgs(2),
	RunE:  runSectionDelete,
}

var adminSubSectionCmd = &cobra.Command{
	Use:   "subsection",
	Short: "Manage subsections",
}

var adminSubSectionAddCmd = &cobra.Command{
	Use:   "add <framework> <section>",
	Short: "Add a subsection",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubSectionAdd,
}

var adminSubSectionEditCmd = &cobra.Command{
	Use:   "edit <framework> <section> <subsection>",
	Short: "Edit a subsection",
	Args:  cobra.ExactArgs(3),
	RunE:  runSubSectionEdit,
}

var adminSubSectionDeleteCmd = &cobra.Command{
	Use:   "delete <framework> <section> <subsection>",
	Short: "Delete a subsection and its responses",
	Args:  cobra.ExactArgs(3),
	RunE:  runSubSectionDelete,
}

var adminQuestionCmd = &cobra.Command{
	Use:   "question",
	Short: "Manage questions",
}

var adminQuestionAddCmd = &cobra.Command{
	Use:   "add <framework> <section> <subsection>",
	Short: "Append a default question",
	Args:  cobra.ExactArgs(3),
	RunE:  runQuestionAdd,
}

var adminQuestionEditCmd = &cobra.Command{
	Use:   "edit <framework> <section> <subsection> <number>",
	Short: "Edit a question by its position",
	Args:  cobra.ExactArgs(4),
	RunE:  runQuestionEdit,
}

var adminQuestionDeleteCmd = &cobra.Command{
	Use:   "delete <framework> <section> <subsection> <number>",
	Short: "Delete a question and its response",
	Args:  cobra.ExactArgs(4),
	RunE:  runQuestionDelete,
}

func init() {
	adminCmd.AddCommand(adminFrameworkCmd)
	adminFrameworkCmd.AddCommand(adminFrameworkAddCmd, adminFrameworkEditCmd, adminFrameworkDeleteCmd,
		adminFrameworkImportCmd, adminFrameworkExportCmd)
	adminCmd.AddCommand(adminSectionCmd)
	adminSectionCmd.AddCommand(adminSectionAddCmd, adminSectionEditCmd, adminSectionDeleteCmd)
	adminCmd.AddCommand(adminSubSectionCmd)
	adminSubSectionCmd.AddCommand(adminSubSectionAddCmd, adminSubSectionEditCmd, adminSubSectionDeleteCmd)
	adminCmd.AddCommand(adminQuestionCmd)
	adminQuestionCmd.AddCommand(adminQuestionAddCmd, adminQuestionEditCmd, adminQuestionDeleteCmd)

	for _, c := range []*cobra.Command{adminFrameworkAddCmd, adminFrameworkEditCmd} {
		c.Flags().StringVar(&adminTitle, "title", "", "framework title")
		c.Flags().StringVar(&adminDescription, "description", "", "framework description")
		c.Flags().StringVar(&adminIcon, "icon", "", "icon name")
	}
	for _, c := range []*cobra.Command{adminSectionAddCmd, adminSectionEditCmd} {
		c.Flags().StringVar(&adminTitle, "title", "", "section title")
		c.Flags().StringVar(&adminDescription, "description", "", "section description")
		c.Flags().StringVar(&adminColor, "color", "", "color token")
		c.Flags().StringVar(&adminIcon, "icon", "", "icon name")
	}
	for _, c := range []*cobra.Command{adminSubSectionAddCmd, adminSubSectionEditCmd} {
		c.Flags().StringVar(&adminTitle, "title", "", "subsection title")
		c.Flags().StringVar(&adminDescription, "description", "", "subsection description")
	}
	adminQuestionEditCmd.Flags().StringVar(&adminText, "text", "", "question text")
	adminQuestionEditCmd.Flags().StringVar(&adminPriority, "priority", "", "priority (Essential, Advanced, Optional)")
	adminQuestionEditCmd.Flags().StringVar(&adminDescription, "description", "", "question description")
	adminQuestionEditCmd.Flags().StringVar(&adminGuidance, "evidence-guidance", "", "evidence guidance")

	for _, c := range []*cobra.Command{adminFrameworkDeleteCmd, adminSectionDeleteCmd, adminSubSectionDeleteCmd, adminQuestionDeleteCmd} {
		c.Flags().BoolVar(&adminForce, "force", false, "skip confirmation")
	}
}

func runFrameworkAdd(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := content.NewMutator(s.content).AddFramework(content.FrameworkInput{
		Title:       adminTitle,
		Description: adminDescription,
		Icon:        adminIcon,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Framework created: %s\n", fw.ID)
	return nil
}

func runFrameworkEdit(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := content.NewMutator(s.content).EditFramework(args[0], content.FrameworkInput{
		Title:       adminTitle,
		Description: adminDescription,
		Icon:        adminIcon,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Framework updated: %s\n", fw.ID)
	return nil
}

func runFrameworkDelete(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	if !adminForce && !confirm(fmt.Sprintf("Delete framework %q and all its responses?", args[0])) {
		fmt.Println("Cancelled")
		return nil
	}

	orphaned, err := content.NewMutator(s.content).DeleteFramework(args[0])
	if err != nil {
		return err
	}
	s.responses.DeleteSubSections(orphaned)
	fmt.Printf("✓ Framework deleted: %s (%d subsections' responses removed)\n", args[0], len(orphaned))
	return nil
}

func runFrameworkImport(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var fw content.Framework
	if err := yaml.Unmarshal(data, &fw); err != nil {
		return fmt.Errorf("parse framework yaml: %w", err)
	}
	if fw.Title == "" {
		return fmt.Errorf("%w: framework title missing", content.ErrValidation)
	}
	if fw.ID == "" {
		fw.ID = content.Slugify(fw.Title)
	}
	content.EnsureQuestionIDs([]content.Framework{fw})

	// Replace by id when present, otherwise append
	frameworks := content.CloneAll(s.content.Frameworks())
	replaced := false
	for i := range frameworks {
		if frameworks[i].ID == fw.ID {
			frameworks[i] = fw
			replaced = true
			break
		}
	}
	if !replaced {
		frameworks = append(frameworks, fw)
	}
	s.content.Replace(frameworks)

	verb := "created"
	if replaced {
		verb = "replaced"
	}
	fmt.Printf("✓ Framework %s: %s\n", verb, fw.ID)
	return nil
}

func runFrameworkExport(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(fw)
	if err != nil {
		return fmt.Errorf("encode framework yaml: %w", err)
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		return err
	}
	fmt.Printf("✓ Framework exported: %s -> %s\n", fw.ID, args[1])
	return nil
}

func runSectionAdd(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	sec, err := content.NewMutator(s.content).AddSection(args[0], content.SectionInput{
		Title:       adminTitle,
		Description: adminDescription,
		Color:       adminColor,
		Icon:        adminIcon,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Section created: %s\n", sec.ID)
	return nil
}

func runSectionEdit(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	sec, err := content.NewMutator(s.content).EditSection(args[0], args[1], content.SectionInput{
		Title:       adminTitle,
		Description: adminDescription,
		Color:       adminColor,
		Icon:        adminIcon,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Section updated: %s\n", sec.ID)
	return nil
}

func runSectionDelete(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	if !adminForce && !confirm(fmt.Sprintf("Delete section %q and its responses?", args[1])) {
		fmt.Println("Cancelled")
		return nil
	}

	orphaned, err := content.NewMutator(s.content).DeleteSection(args[0], args[1])
	if err != nil {
		return err
	}
	s.responses.DeleteSubSections(orphaned)
	fmt.Printf("✓ Section deleted: %s (%d subsections' responses removed)\n", args[1], len(orphaned))
	return nil
}

func runSubSectionAdd(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	sub, err := content.NewMutator(s.content).AddSubSection(args[0], args[1], content.SubSectionInput{
		Title:       adminTitle,
		Description: adminDescription,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Subsection created: %s\n", sub.ID)
	return nil
}

func runSubSectionEdit(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	sub, err := content.NewMutator(s.content).EditSubSection(args[0], args[1], args[2], content.SubSectionInput{
		Title:       adminTitle,
		Description: adminDescription,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Subsection updated: %s\n", sub.ID)
	return nil
}

func runSubSectionDelete(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	if !adminForce && !confirm(fmt.Sprintf("Delete subsection %q and its responses?", args[2])) {
		fmt.Println("Cancelled")
		return nil
	}

	removed, err := content.NewMutator(s.content).DeleteSubSection(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	s.responses.DeleteSubSections([]string{removed})
	fmt.Printf("✓ Subsection deleted: %s\n", removed)
	return nil
}

func runQuestionAdd(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	q, err := content.NewMutator(s.content).AddQuestion(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Printf("✓ Question added: %s\n", q.ID)
	return nil
}

func questionIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("question number must be a positive integer, got %q", arg)
	}
	return n - 1, nil
}

func runQuestionEdit(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	index, err := questionIndex(args[3])
	if err != nil {
		return err
	}

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}
	_, sub, ok := fw.FindSubSection(args[2])
	if !ok {
		return fmt.Errorf("%w: subsection %q", content.ErrNotFound, args[2])
	}
	if index >= len(sub.Questions) {
		return fmt.Errorf("%w: question %d", content.ErrNotFound, index+1)
	}

	// Start from the current question so unset flags keep their value
	q := sub.Questions[index]
	if cmd.Flags().Changed("text") {
		q.Text = adminText
	}
	if cmd.Flags().Changed("priority") {
		p, err := content.ParsePriority(adminPriority)
		if err != nil {
			return err
		}
		q.Priority = p
	}
	if cmd.Flags().Changed("description") {
		q.Description = adminDescription
	}
	if cmd.Flags().Changed("evidence-guidance") {
		q.EvidenceGuidance = adminGuidance
	}

	updated, err := content.NewMutator(s.content).EditQuestion(args[0], args[1], args[2], index, q)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Question updated: %s\n", updated.ID)
	return nil
}

func runQuestionDelete(cmd *cobra.Command, args []string) error {
	s, cleanup, err := requireAdmin()
	if err != nil {
		return err
	}
	defer cleanup()

	index, err := questionIndex(args[3])
	if err != nil {
		return err
	}

	if !adminForce && !confirm("Delete this question and its response?") {
		fmt.Println("Cancelled")
		return nil
	}

	removed, err := content.NewMutator(s.content).DeleteQuestion(args[0], args[1], args[2], index)
	if err != nil {
		return err
	}
	s.responses.DeleteQuestion(args[2], removed)
	fmt.Printf("✓ Question deleted: %s\n", removed)
	return nil
}
