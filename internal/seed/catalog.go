package seed

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// CatalogSeeder installs catalog entries that are not yet present.
type CatalogSeeder interface {
	Seed(ctx context.Context, courses []models.Course) (int, error)
}

type catalogFile struct {
	Courses []models.Course `mapstructure:"courses"`
}

// LoadCatalog reads courses from a YAML or JSON file. The file holds a top-level "courses" list
// using snake_case keys.
func LoadCatalog(path string) ([]models.Course, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var file catalogFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(file.Courses) == 0 {
		return nil, fmt.Errorf("catalog %s contains no courses", path)
	}
	return file.Courses, nil
}

// Run seeds the catalog from path, or from DefaultCatalog when path is empty.
func Run(ctx context.Context, seeder CatalogSeeder, path string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	courses := DefaultCatalog()
	source := "default"
	if path != "" {
		loaded, err := LoadCatalog(path)
		if err != nil {
			return err
		}
		courses = loaded
		source = path
	}
	inserted, err := seeder.Seed(ctx, courses)
	if err != nil {
		return fmt.Errorf("seed catalog from %s: %w", source, err)
	}
	logger.Info("catalog ready", zap.String("source", source), zap.Int("inserted", inserted))
	return nil
}
