// README: Daily call budgets for external providers.
package quota

import "errors"

// ErrQuotaExhausted is returned when a provider has no calls left for the current day.
var ErrQuotaExhausted = errors.New("provider quota exhausted")

// DefaultDailyCalls matches the free tier of the traffic provider.
const DefaultDailyCalls = 2500

const dayLayout = "2006-01-02"
