package models

// FeeStructure is the deployment-wide fee schedule.
type FeeStructure struct {
	MonthlyFee int64 `json:"monthlyFee"`
	AnnualFee  int64 `json:"annualFee"`
}
