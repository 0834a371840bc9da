package power

// ACPI methods of the IdeaPad 5 15ARE05 embedded controller, see
// https://wiki.archlinux.org/title/Lenovo_IdeaPad_5_15are05

const (
	acpiGetPerfMode    = `\_SB.PCI0.LPC0.EC0.SPMO`
	acpiGetRapidCharge = `\_SB.PCI0.LPC0.EC0.QCHO`
	acpiGetBatConserv  = `\_SB.PCI0.LPC0.EC0.BTSM`
	acpiSetPerfMode    = `\_SB.PCI0.LPC0.EC0.VPC0.DYTC`
	acpiSetRapidCharge = `\_SB.PCI0.LPC0.EC0.VPC0.SBMC`
	acpiSetBatConserv  = `\_SB.PCI0.LPC0.EC0.VPC0.SBMC`
)

// Arguments passed to the set methods. Switch codes don't match what the get
// methods answer, that's how the firmware works.
const (
	codePerfIntelligent = "0x000FB001"
	codePerfPerformance = "0x0012B001"
	codePerfBatterySave = "0x0013B001"
	codeRapidChargeOn   = "0x07"
	codeRapidChargeOff  = "0x08"
	codeBatConservOn    = "0x03"
	codeBatConservOff   = "0x05"
)

// Raw answers of the get methods.
const (
	resp0 = "0x0"
	resp1 = "0x1"
	resp2 = "0x2"
)

// acpi_call answers this when asked for a method that doesn't exist.
const respNotFound = "Error: AE_NOT_FOUND"
