package taxonomy

// Treatment category names.
const (
	TreatmentSkincare      = "Skincare"
	TreatmentLaser         = "Laser"
	TreatmentFiller        = "Filler"
	TreatmentNeurotoxin    = "Neurotoxin"
	TreatmentChemicalPeel  = "Chemical Peel"
	TreatmentMicroneedling = "Microneedling"
	TreatmentBiostimulants = "Biostimulants"
	TreatmentKybella       = "Kybella"
	TreatmentThreadlift    = "Threadlift"
)

// Concern names.
const (
	ConcernLinesWrinkles     = "Lines & Wrinkles"
	ConcernSkinTexture       = "Skin Texture"
	ConcernPigmentation      = "Pigmentation"
	ConcernVolumeLoss        = "Volume Loss"
	ConcernFacialBalance     = "Facial Balance"
	ConcernLaxity            = "Laxity"
	ConcernSubmentalFullness = "Submental Fullness"
)

// DefaultData returns the built-in practice taxonomy.
func DefaultData() Data {
	return Data{
		Concerns: []Concern{
			{Name: ConcernLinesWrinkles, Category: CategorySkinHealth, Areas: []Area{AreaForehead, AreaEyes, AreaLips, AreaNeck}},
			{Name: ConcernSkinTexture, Category: CategorySkinHealth, Areas: []Area{AreaSkin}},
			{Name: ConcernPigmentation, Category: CategorySkinHealth, Areas: []Area{AreaSkin}},
			{Name: ConcernVolumeLoss, Category: CategoryVolumeLoss, Areas: []Area{AreaCheeks, AreaLips, AreaEyes, AreaChin}},
			{Name: ConcernFacialBalance, Category: CategoryProportions, Areas: []Area{AreaNose, AreaChin, AreaJawline, AreaLips}},
			{Name: ConcernLaxity, Category: CategorySkinLaxity, Areas: []Area{AreaJawline, AreaNeck, AreaCheeks}},
			{Name: ConcernSubmentalFullness, Category: CategoryExcessFat, Areas: []Area{AreaChin, AreaNeck}},
		},

		Issues: []IssueDef{
			{Name: "Thin Lips", Area: AreaLips, Concerns: []string{ConcernVolumeLoss, ConcernFacialBalance}},
			{Name: "Lip Lines", Area: AreaLips, Concerns: []string{ConcernLinesWrinkles}},
			{Name: "Gummy Smile", Area: AreaLips, Concerns: []string{ConcernFacialBalance}},
			{Name: "Forehead Lines", Area: AreaForehead, Concerns: []string{ConcernLinesWrinkles}},
			{Name: "Crow's Feet", Area: AreaEyes, Concerns: []string{ConcernLinesWrinkles}},
			{Name: "Under Eye Hollows", Area: AreaEyes, Concerns: []string{ConcernVolumeLoss}},
			{Name: "Flat Cheeks", Area: AreaCheeks, Concerns: []string{ConcernVolumeLoss}},
			{Name: "Dorsal Hump", Area: AreaNose, Concerns: []string{ConcernFacialBalance}},
			{Name: "Retruded Chin", Area: AreaChin, Concerns: []string{ConcernFacialBalance}},
			{Name: "Double Chin", Area: AreaChin, Concerns: []string{ConcernSubmentalFullness}},
			{Name: "Jowls", Area: AreaJawline, Concerns: []string{ConcernLaxity}},
			{Name: "Undefined Jawline", Area: AreaJawline, Concerns: []string{ConcernFacialBalance, ConcernLaxity}},
			{Name: "Neck Laxity", Area: AreaNeck, Concerns: []string{ConcernLaxity}},
			{Name: "Neck Bands", Area: AreaNeck, Concerns: []string{ConcernLinesWrinkles}},
			{Name: "Acne Scars", Area: AreaSkin, Concerns: []string{ConcernSkinTexture}},
			{Name: "Enlarged Pores", Area: AreaSkin, Concerns: []string{ConcernSkinTexture}},
			{Name: "Sun Damage", Area: AreaSkin, Concerns: []string{ConcernPigmentation}},
			{Name: "Uneven Skin Tone", Area: AreaSkin, Concerns: []string{ConcernPigmentation}},
		},

		Suggestions: []SuggestionDef{
			{Name: "Balance Lips", Area: AreaLips, Issues: []string{"Thin Lips", "Lip Lines", "Gummy Smile"}},
			{Name: "Smooth Forehead", Area: AreaForehead, Issues: []string{"Forehead Lines"}},
			{Name: "Brighten Eyes", Area: AreaEyes, Issues: []string{"Crow's Feet", "Under Eye Hollows"}},
			{Name: "Restore Cheek Volume", Area: AreaCheeks, Issues: []string{"Flat Cheeks"}},
			{Name: "Refine Nose", Area: AreaNose, Issues: []string{"Dorsal Hump"}},
			{Name: "Define Jawline", Area: AreaJawline, Issues: []string{"Jowls", "Undefined Jawline"}},
			{Name: "Enhance Chin", Area: AreaChin, Issues: []string{"Retruded Chin", "Double Chin"}},
			{Name: "Tighten Neck", Area: AreaNeck, Issues: []string{"Neck Laxity", "Neck Bands"}},
			{Name: "Improve Skin Quality", Area: AreaSkin, Issues: []string{"Acne Scars", "Enlarged Pores"}},
			{Name: "Even Skin Tone", Area: AreaSkin, Issues: []string{"Sun Damage", "Uneven Skin Tone"}},
			{Name: "Full Face Rejuvenation", Area: AreaFullFace},
			{Name: OtherSentinel, Area: AreaOther},
		},

		Treatments: []TreatmentDef{
			{
				Name:     TreatmentSkincare,
				Products: []string{"Medical-grade cleanser", "Retinoid", "Vitamin C serum", "Hydroquinone", "Sunscreen"},
				Meta:     &Meta{Longevity: "Ongoing", Downtime: "None", PriceRange: "$50–$300"},
			},
			{
				Name:     TreatmentLaser,
				Products: []string{"IPL photofacial", "Fractional CO2", "Nd:YAG", "Clear + Brilliant"},
				Meta:     &Meta{Longevity: "6–12 months", Downtime: "1–7 days", PriceRange: "$400–$1,500"},
			},
			{
				Name: TreatmentFiller,
				Products: []string{
					"Hyaluronic acid (HA) – lips",
					"Hyaluronic acid (HA) – cheek",
					"Hyaluronic acid (HA) – under eye",
					"Hyaluronic acid (HA) – chin & jawline",
					"Calcium hydroxylapatite (CaHA)",
				},
				Meta: &Meta{Longevity: "6–18 months", Downtime: "1–2 days", PriceRange: "$650–$900 per syringe"},
			},
			{
				Name:     TreatmentNeurotoxin,
				Products: []string{"Botox", "Dysport", "Xeomin", "Daxxify"},
				Meta:     &Meta{Longevity: "3–4 months", Downtime: "None", PriceRange: "$12–$16 per unit"},
			},
			{
				Name:     TreatmentChemicalPeel,
				Products: []string{"Glycolic peel", "Salicylic peel", "TCA peel"},
				Meta:     &Meta{Longevity: "1–3 months", Downtime: "3–7 days", PriceRange: "$150–$600"},
			},
			{
				Name:     TreatmentMicroneedling,
				Products: []string{"Microneedling", "RF microneedling", "Microneedling with PRP"},
				Meta:     &Meta{Longevity: "6–12 months", Downtime: "1–3 days", PriceRange: "$300–$1,200"},
			},
			{
				Name:     TreatmentBiostimulants,
				Products: []string{"Sculptra", "Radiesse"},
				Meta:     &Meta{Longevity: "Up to 2 years", Downtime: "1–2 days", PriceRange: "$800–$1,000 per vial"},
			},
			{
				Name:     TreatmentKybella,
				Products: []string{"Kybella"},
				Meta:     &Meta{Longevity: "Permanent", Downtime: "3–7 days swelling"},
			},
			{
				Name:     TreatmentThreadlift,
				Products: []string{"PDO threads", "PLLA threads"},
				Meta:     &Meta{Longevity: "12–18 months", Downtime: "3–5 days"},
			},
			{Name: "Facelift", Excluded: true},
			{Name: "Rhinoplasty", Excluded: true},
			{Name: "Blepharoplasty", Excluded: true},
			{Name: "Liposuction", Excluded: true},
			{Name: "Neck Lift", Excluded: true},
			{Name: "Brow Lift", Excluded: true},
		},

		InterestTreatments: []Rule[[]string]{
			{Keywords: []string{"lip"}, Result: []string{TreatmentFiller, TreatmentNeurotoxin}},
			{Keywords: []string{"forehead", "brow"}, Result: []string{TreatmentNeurotoxin}},
			{Keywords: []string{"eye"}, Result: []string{TreatmentNeurotoxin, TreatmentFiller, TreatmentLaser}},
			{Keywords: []string{"cheek"}, Result: []string{TreatmentFiller, TreatmentBiostimulants}},
			{Keywords: []string{"nose"}, Result: []string{TreatmentFiller}},
			{Keywords: []string{"jaw"}, Result: []string{TreatmentFiller, TreatmentNeurotoxin, TreatmentThreadlift, TreatmentKybella}},
			{Keywords: []string{"chin"}, Result: []string{TreatmentFiller, TreatmentKybella}},
			{Keywords: []string{"neck"}, Result: []string{TreatmentNeurotoxin, TreatmentThreadlift, TreatmentMicroneedling}},
			{Keywords: []string{"skin quality", "texture"}, Result: []string{TreatmentSkincare, TreatmentLaser, TreatmentChemicalPeel, TreatmentMicroneedling}},
			{Keywords: []string{"skin tone", "pigment"}, Result: []string{TreatmentSkincare, TreatmentLaser, TreatmentChemicalPeel}},
			{Keywords: []string{"full face", "rejuvenat"}, Result: []string{TreatmentFiller, TreatmentNeurotoxin, TreatmentBiostimulants, TreatmentLaser, TreatmentSkincare}},
		},

		IssueTreatments: []Rule[[]string]{
			{Keywords: []string{"forehead lines", "crow's feet", "lip lines", "neck bands", "frown", "wrinkle"}, Result: []string{TreatmentNeurotoxin}},
			{Keywords: []string{"thin lips", "under eye hollows", "flat cheeks", "hollow"}, Result: []string{TreatmentFiller}},
			{Keywords: []string{"flat cheeks", "volume loss", "temple"}, Result: []string{TreatmentBiostimulants}},
			{Keywords: []string{"dorsal hump", "retruded chin"}, Result: []string{TreatmentFiller}},
			{Keywords: []string{"double chin", "submental"}, Result: []string{TreatmentKybella}},
			{Keywords: []string{"jowls", "undefined jawline", "neck laxity", "sagging"}, Result: []string{TreatmentThreadlift, TreatmentBiostimulants}},
			{Keywords: []string{"undefined jawline"}, Result: []string{TreatmentFiller, TreatmentNeurotoxin}},
			{Keywords: []string{"acne scars", "enlarged pores", "texture"}, Result: []string{TreatmentMicroneedling, TreatmentChemicalPeel, TreatmentLaser}},
			{Keywords: []string{"sun damage", "uneven skin tone", "pigment"}, Result: []string{TreatmentLaser, TreatmentSkincare, TreatmentChemicalPeel}},
			{Keywords: []string{"gummy smile"}, Result: []string{TreatmentNeurotoxin}},
		},

		Findings: []Rule[FindingGoal]{
			{Keywords: []string{"gummy"}, Result: FindingGoal{Goal: "Balance Lips", Region: AreaLips, Treatments: []string{TreatmentNeurotoxin}}},
			{Keywords: []string{"lip"}, Result: FindingGoal{Goal: "Balance Lips", Region: AreaLips, Treatments: []string{TreatmentFiller, TreatmentNeurotoxin}}},
			{Keywords: []string{"forehead", "frown"}, Result: FindingGoal{Goal: "Smooth Forehead", Region: AreaForehead, Treatments: []string{TreatmentNeurotoxin}}},
			{Keywords: []string{"crow", "eye"}, Result: FindingGoal{Goal: "Brighten Eyes", Region: AreaEyes, Treatments: []string{TreatmentNeurotoxin, TreatmentFiller}}},
			{Keywords: []string{"cheek", "midface"}, Result: FindingGoal{Goal: "Restore Cheek Volume", Region: AreaCheeks, Treatments: []string{TreatmentFiller, TreatmentBiostimulants}}},
			{Keywords: []string{"nose", "dorsal"}, Result: FindingGoal{Goal: "Refine Nose", Region: AreaNose, Treatments: []string{TreatmentFiller}}},
			{Keywords: []string{"double chin", "submental"}, Result: FindingGoal{Goal: "Enhance Chin", Region: AreaChin, Treatments: []string{TreatmentKybella}}},
			{Keywords: []string{"chin"}, Result: FindingGoal{Goal: "Enhance Chin", Region: AreaChin, Treatments: []string{TreatmentFiller}}},
			{Keywords: []string{"jowl", "jaw"}, Result: FindingGoal{Goal: "Define Jawline", Region: AreaJawline, Treatments: []string{TreatmentFiller, TreatmentThreadlift}}},
			{Keywords: []string{"neck"}, Result: FindingGoal{Goal: "Tighten Neck", Region: AreaNeck, Treatments: []string{TreatmentNeurotoxin, TreatmentThreadlift}}},
			{Keywords: []string{"acne", "scar", "pore", "texture"}, Result: FindingGoal{Goal: "Improve Skin Quality", Region: AreaSkin, Treatments: []string{TreatmentMicroneedling, TreatmentChemicalPeel, TreatmentLaser}}},
			{Keywords: []string{"sun", "pigment", "tone", "spot"}, Result: FindingGoal{Goal: "Even Skin Tone", Region: AreaSkin, Treatments: []string{TreatmentLaser, TreatmentSkincare, TreatmentChemicalPeel}}},
		},

		InterestRegions: []Rule[Area]{
			{Keywords: []string{"lip"}, Result: AreaLips},
			{Keywords: []string{"forehead", "brow"}, Result: AreaForehead},
			{Keywords: []string{"eye"}, Result: AreaEyes},
			{Keywords: []string{"cheek"}, Result: AreaCheeks},
			{Keywords: []string{"nose"}, Result: AreaNose},
			{Keywords: []string{"jaw"}, Result: AreaJawline},
			{Keywords: []string{"chin"}, Result: AreaChin},
			{Keywords: []string{"neck"}, Result: AreaNeck},
			{Keywords: []string{"skin"}, Result: AreaSkin},
			{Keywords: []string{"full face"}, Result: AreaFullFace},
		},

		ProductKeywords: map[string][]Rule[[]string]{
			TreatmentFiller: {
				{Keywords: []string{"lip", "pout"}, Result: []string{"Hyaluronic acid (HA) – lips"}},
				{Keywords: []string{"cheek", "midface"}, Result: []string{"Hyaluronic acid (HA) – cheek"}},
				{Keywords: []string{"volume", "volumize", "plump"}, Result: []string{"Hyaluronic acid (HA) – cheek", "Calcium hydroxylapatite (CaHA)"}},
				{Keywords: []string{"under eye", "tear trough", "hollow"}, Result: []string{"Hyaluronic acid (HA) – under eye"}},
				{Keywords: []string{"chin", "jaw"}, Result: []string{"Hyaluronic acid (HA) – chin & jawline", "Calcium hydroxylapatite (CaHA)"}},
				{Keywords: []string{"nose", "nasal"}, Result: []string{"Hyaluronic acid (HA) – nose"}},
			},
			TreatmentNeurotoxin: {
				{Keywords: []string{"forehead", "frown", "11s"}, Result: []string{"Botox", "Dysport"}},
				{Keywords: []string{"crow", "eye"}, Result: []string{"Botox", "Xeomin"}},
				{Keywords: []string{"long lasting", "longevity"}, Result: []string{"Daxxify"}},
				{Keywords: []string{"gummy", "lip flip"}, Result: []string{"Botox"}},
			},
			TreatmentLaser: {
				{Keywords: []string{"sun", "pigment", "spots", "redness"}, Result: []string{"IPL photofacial"}},
				{Keywords: []string{"scar", "wrinkle", "resurfacing"}, Result: []string{"Fractional CO2"}},
				{Keywords: []string{"vascular", "veins", "hair"}, Result: []string{"Nd:YAG"}},
				{Keywords: []string{"glow", "prejuvenation", "dull"}, Result: []string{"Clear + Brilliant"}},
			},
			TreatmentSkincare: {
				{Keywords: []string{"acne", "breakout"}, Result: []string{"Medical-grade cleanser", "Retinoid"}},
				{Keywords: []string{"bright", "dull"}, Result: []string{"Vitamin C serum"}},
				{Keywords: []string{"melasma", "pigment", "dark spot"}, Result: []string{"Hydroquinone", "Sunscreen"}},
				{Keywords: []string{"sun"}, Result: []string{"Sunscreen"}},
			},
			TreatmentChemicalPeel: {
				{Keywords: []string{"acne", "oily"}, Result: []string{"Salicylic peel"}},
				{Keywords: []string{"pigment", "melasma"}, Result: []string{"TCA peel"}},
				{Keywords: []string{"texture", "dull"}, Result: []string{"Glycolic peel"}},
			},
			TreatmentMicroneedling: {
				{Keywords: []string{"scar"}, Result: []string{"RF microneedling", "Microneedling with PRP"}},
				{Keywords: []string{"pore", "texture"}, Result: []string{"Microneedling"}},
				{Keywords: []string{"laxity", "tighten"}, Result: []string{"RF microneedling"}},
			},
			TreatmentBiostimulants: {
				{Keywords: []string{"collagen", "volume"}, Result: []string{"Sculptra"}},
				{Keywords: []string{"jaw", "contour"}, Result: []string{"Radiesse"}},
			},
			TreatmentThreadlift: {
				{Keywords: []string{"lift", "sagging", "jowl"}, Result: []string{"PDO threads"}},
				{Keywords: []string{"collagen"}, Result: []string{"PLLA threads"}},
			},
		},
	}
}
