package locker

import (
	"fmt"
	"net/http"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// ResolveHelper picks the helper module a create will route issuance
// through, or the null ref for direct issuance to the beneficiary.
//
// This is a decision table, not independent checks: the forced-default rule
// subsumes "override equals default" as a non-conflicting case, so an
// override that happens to match the configured default never fails even
// when the conflict flag is set.
func ResolveHelper(
	cfg types.ClaimTypeConfig, override, defaultHelper types.Ref,
) (types.Ref, *types.Error) {
	if !cfg.HasDefaultHelper {
		return override, nil
	}

	if cfg.ForceDefault || override.IsNull() {
		if cfg.RevertIfDefaultForcedAndOverridden && !override.IsNull() && override != defaultHelper {
			metrics.RecordHelperResolutionConflict()
			return "", types.NewError(
				http.StatusUnprocessableEntity,
				types.DefaultHelperConflict,
				fmt.Errorf("helper override %s conflicts with forced default %s", override, defaultHelper),
			)
		}
		return defaultHelper, nil
	}

	return override, nil
}
