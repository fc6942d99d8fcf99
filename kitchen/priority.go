package kitchen

import "fmt"

// Tier -> bucket urgensi berdasarkan lama menunggu
type Tier string

const (
	TierNormal   Tier = "normal"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// Classifier memetakan waiting time (menit) ke tier + label tampilan.
// Threshold datang dari konfigurasi; WarnAfter <= CritAfter dijaga di config.
type Classifier struct {
	WarnAfterMin int
	CritAfterMin int
}

// DefaultClassifier -> threshold bawaan 15/30 menit
func DefaultClassifier() Classifier {
	return Classifier{WarnAfterMin: 15, CritAfterMin: 30}
}

type Classification struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Classify -> tier memburuk monoton seiring waiting time naik
func (c Classifier) Classify(waitingMinutes int) Classification {
	tier := TierNormal
	if waitingMinutes >= c.CritAfterMin {
		tier = TierCritical
	} else if waitingMinutes >= c.WarnAfterMin {
		tier = TierWarning
	}
	return Classification{Tier: tier, Label: FormatWaitingTime(waitingMinutes)}
}

// FormatWaitingTime -> "45 min" di bawah satu jam, "1h 15min" setelahnya.
// Input nol/negatif ditampilkan "0 min", tidak pernah negatif.
func FormatWaitingTime(minutes int) string {
	if minutes <= 0 {
		return "0 min"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}
