// Package config holds the library defaults. Every value can be
// overridden through the environment (ELECTOMAP_ prefix) before the
// first map is built; explicit Options fields always win over these.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sidimo/electomap/internal/pkg/constants"
)

func init() {
	viper.SetEnvPrefix("electomap")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperKeyDefaultYear, 2024)
	viper.SetDefault(constants.ViperKeyFetchTimeout, 40*time.Second)
	viper.SetDefault(constants.ViperKeyFetchRetries, 5)
	viper.SetDefault(constants.ViperKeyTitlePrefix, "Résultats électoraux")
	viper.SetDefault(constants.ViperKeyWidth, 800)
	viper.SetDefault(constants.ViperKeyHeight, 600)
	viper.SetDefault(constants.ViperKeyOutputPath, "")
}

func DefaultYear() int {
	return viper.GetInt(constants.ViperKeyDefaultYear)
}

func FetchTimeout() time.Duration {
	return viper.GetDuration(constants.ViperKeyFetchTimeout)
}

func FetchRetries() uint64 {
	return viper.GetUint64(constants.ViperKeyFetchRetries)
}

func TitlePrefix() string {
	return viper.GetString(constants.ViperKeyTitlePrefix)
}

func Width() int {
	return viper.GetInt(constants.ViperKeyWidth)
}

func Height() int {
	return viper.GetInt(constants.ViperKeyHeight)
}

// OutputPath is where interactive-display mode writes the widget HTML.
// Empty means a generated file under the OS temp dir.
func OutputPath() string {
	return viper.GetString(constants.ViperKeyOutputPath)
}
