package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/usecase"
	"github.com/xavierca1/leadflow/internal/validation"
)

var seedFile string

var seedCategoriesCmd = &cobra.Command{
	Use:   "seed-categories",
	Short: "Insert the categories listed in a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		categories, err := loadCategories(seedFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStores(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		uc := usecase.NewManageCategoriesUseCase(st.Categories, validation.New())
		created, err := uc.Seed(ctx, categories)
		if err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		log.Info("categories seeded",
			zap.String("file", seedFile),
			zap.Int("created", created),
			zap.Int("skipped", len(categories)-created))
		return nil
	},
}

func init() {
	seedCategoriesCmd.Flags().StringVarP(&seedFile, "file", "f", "categories.yaml", "YAML file with a top-level categories list")
}

type seedCategory struct {
	ID            string `yaml:"id"`
	NameEN        string `yaml:"name_en"`
	NameHE        string `yaml:"name_he"`
	DescriptionEN string `yaml:"description_en"`
	DescriptionHE string `yaml:"description_he"`
	Icon          string `yaml:"icon"`
	IsActive      *bool  `yaml:"is_active"`
}

type seedDocument struct {
	Categories []seedCategory `yaml:"categories"`
}

// loadCategories reads a seed file. Entries without is_active are active.
func loadCategories(path string) ([]*entity.Category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseCategories(raw)
}

func parseCategories(raw []byte) ([]*entity.Category, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := make([]*entity.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		active := true
		if c.IsActive != nil {
			active = *c.IsActive
		}
		out = append(out, &entity.Category{
			ID:            c.ID,
			NameEN:        c.NameEN,
			NameHE:        c.NameHE,
			DescriptionEN: c.DescriptionEN,
			DescriptionHE: c.DescriptionHE,
			Icon:          c.Icon,
			IsActive:      active,
		})
	}
	return out, nil
}
