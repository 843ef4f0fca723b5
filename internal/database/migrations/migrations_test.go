package migrations

import (
	"strings"
	"testing"
)

func TestMigrationsAreOrderedAndComplete(t *testing.T) {
	all := All()
	seen := make(map[string]bool)

	for i, mig := range all {
		if mig.Up == nil || mig.Down == nil {
			t.Errorf("%s: Up and Down must both be set", mig.Name)
		}
		if seen[mig.Name] {
			t.Errorf("duplicate migration name %s", mig.Name)
		}
		seen[mig.Name] = true

		if i > 0 && strings.Compare(all[i-1].Name, mig.Name) >= 0 {
			t.Errorf("%s must sort after %s", mig.Name, all[i-1].Name)
		}
	}
}
