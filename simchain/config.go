package simchain

import (
	"fmt"
	"math/big"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/upgradekit/upgradekit/internal/utils/safecast"
)

const (
	// DefaultGasLimit is the default block gas limit for the simulated chain
	DefaultGasLimit = uint64(8_000_000)

	// DefaultBalance is the default balance in wei for each provisioned
	// identity
	DefaultBalance = int64(1e18)

	envGasLimit          = "UPGRADEKIT_GAS_LIMIT"
	envAccountBalance    = "UPGRADEKIT_ACCOUNT_BALANCE"
	envSkipContractTests = "UPGRADEKIT_SKIP_CONTRACT_TESTS"
)

// Config controls the simulated chain.
type Config struct {
	GasLimit          uint64   `validate:"required,gt=0"`
	Balance           *big.Int `validate:"required"`
	SkipContractTests bool
}

// DefaultConfig returns the configuration used when the environment sets
// nothing.
func DefaultConfig() Config {
	return Config{
		GasLimit: DefaultGasLimit,
		Balance:  big.NewInt(DefaultBalance),
	}
}

// LoadConfig reads the chain configuration from the environment, falling
// back to a .env file when present.
func LoadConfig() (Config, error) {
	// Missing .env files are fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if v := os.Getenv(envGasLimit); v != "" {
		gas, err := cast.ToInt64E(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envGasLimit, err)
		}

		cfg.GasLimit, err = safecast.Int64ToUint64(gas)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envGasLimit, err)
		}
	}

	if v := os.Getenv(envAccountBalance); v != "" {
		balance, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return Config{}, fmt.Errorf("invalid %s: %q is not a decimal integer", envAccountBalance, v)
		}

		cfg.Balance = balance
	}

	if v := os.Getenv(envSkipContractTests); v != "" {
		skip, err := cast.ToBoolE(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envSkipContractTests, err)
		}

		cfg.SkipContractTests = skip
	}

	return cfg, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Balance.Sign() <= 0 {
		return fmt.Errorf("account balance must be positive, got %s", c.Balance)
	}

	return nil
}
