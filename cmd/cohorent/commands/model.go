package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/internal/scoringconfig"
)

// modelCmd represents the model command
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "스코어링 모델 관리",
	Long: `스코어링 모델(YAML)을 출력하거나 검증합니다.
경로를 생략하면 SCORING_MODEL_PATH, 그것도 없으면 내장 기본 모델을 사용합니다.

Example:
  go run ./cmd/cohorent model show
  go run ./cmd/cohorent model validate configs/scoring/cohorent_v1.yaml`,
}

var (
	modelShowCmd = &cobra.Command{
		Use:   "show [path]",
		Short: "모델 출력 (YAML + hash)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModelShow,
	}

	modelValidateCmd = &cobra.Command{
		Use:   "validate [path]",
		Short: "모델 검증 (필수 제약 + 권장 경고)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModelValidate,
	}
)

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelValidateCmd)
}

// modelPath resolves the model file from args, then config
func modelPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Scoring.ModelPath, nil
}

func runModelShow(cmd *cobra.Command, args []string) error {
	path, err := modelPath(args)
	if err != nil {
		return err
	}

	model, err := scoringconfig.LoadOrDefault(path)
	if err != nil {
		return err
	}

	data, err := scoringconfig.Marshal(model)
	if err != nil {
		return fmt.Errorf("render model: %w", err)
	}
	hash, err := scoringconfig.Hash(model)
	if err != nil {
		return fmt.Errorf("hash model: %w", err)
	}

	source := path
	if source == "" {
		source = "(built-in default)"
	}

	PrintHeader(fmt.Sprintf("Scoring model %s %s", model.Meta.ModelID, model.Meta.Version))
	PrintKeyValue("Source", source, 8)
	PrintKeyValue("SHA256", hash, 8)
	PrintSeparator()
	fmt.Fprint(out, string(data))
	PrintDoubleSeparator()
	return nil
}

func runModelValidate(cmd *cobra.Command, args []string) error {
	path, err := modelPath(args)
	if err != nil {
		return err
	}

	model, err := scoringconfig.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if err := scoringconfig.Validate(model); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Model %s %s is valid", model.Meta.ModelID, model.Meta.Version))
	for _, w := range scoringconfig.Warn(model) {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	return nil
}
