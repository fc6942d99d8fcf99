package kitchen

import "github.com/dapurkita/kds-app/models"

// NextStatus -> status berikutnya dalam lifecycle, atau "" kalau sudah terminal.
func NextStatus(current models.ItemStatus) models.ItemStatus {
	switch current {
	case models.StatusSendToKitchen:
		return models.StatusCooking
	case models.StatusCooking:
		return models.StatusReadyToServe
	case models.StatusReadyToServe:
		return models.StatusCompleted
	}
	return ""
}

// PreviousStatus -> kebalikan persis dari NextStatus; SEND_TO_KITCHEN -> "".
func PreviousStatus(current models.ItemStatus) models.ItemStatus {
	switch current {
	case models.StatusCooking:
		return models.StatusSendToKitchen
	case models.StatusReadyToServe:
		return models.StatusCooking
	case models.StatusCompleted:
		return models.StatusReadyToServe
	}
	return ""
}

// RequiresAssignment -> hanya transisi masuk COOKING yang butuh pilih staff.
// Mundur keluar dari COOKING tidak perlu pilih ulang dan tidak menghapus assignment.
func RequiresAssignment(target models.ItemStatus) bool {
	return target == models.StatusCooking
}
