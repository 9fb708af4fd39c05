package dto

type SubmitDonationInput struct {
	MedicineName      string `form:"medicineName" binding:"required,max=120"`
	Quantity          string `form:"quantity" binding:"required,max=50"`
	MedicineForm      string `form:"medicineForm" binding:"required,max=50"`
	Strength          string `form:"strength" binding:"required,max=50"`
	ManufacturingDate string `form:"manufacturingDate"`
	ExpiryDate        string `form:"expiryDate" binding:"required"`
	DonorName         string `form:"donorName" binding:"required,max=100"`
	DonorPhoneNumber  string `form:"donorPhoneNumber" binding:"required,max=20"`
	DonorAddress      string `form:"donorAddress" binding:"required,max=200"`
}
