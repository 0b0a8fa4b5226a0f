package config

import "github.com/ghalamif/EcoGuard/internal/domain"

// ChennaiFacilities is the built-in facility catalog.
func ChennaiFacilities() []domain.Facility {
	return []domain.Facility{
		{ID: "manali", Name: "Manali Industrial Estate", Area: "North Chennai", Lat: 13.1653, Lng: 80.2619, Status: domain.StatusOperational,
			Zeolite: domain.Zeolite{Remaining: 73, Days: 18, Absorption: 2847}},
		{ID: "ennore", Name: "Ennore Thermal Plant", Area: "Ennore", Lat: 13.2167, Lng: 80.3167, Status: domain.StatusWarning,
			Zeolite: domain.Zeolite{Remaining: 45, Days: 11, Absorption: 3125}},
		{ID: "ambattur", Name: "Ambattur Industrial Estate", Area: "West Chennai", Lat: 13.0986, Lng: 80.1614, Status: domain.StatusOperational,
			Zeolite: domain.Zeolite{Remaining: 88, Days: 22, Absorption: 2156}},
		{ID: "guindy", Name: "Guindy Industrial Area", Area: "South Chennai", Lat: 13.0067, Lng: 80.2206, Status: domain.StatusCritical,
			Zeolite: domain.Zeolite{Remaining: 21, Days: 5, Absorption: 3890}},
		{ID: "madhavaram", Name: "Madhavaram Cement Factory", Area: "North Chennai", Lat: 13.1482, Lng: 80.2314, Status: domain.StatusOperational,
			Zeolite: domain.Zeolite{Remaining: 67, Days: 16, Absorption: 2634}},
		{ID: "perungudi", Name: "Perungudi IT Corridor", Area: "OMR", Lat: 12.9611, Lng: 80.2426, Status: domain.StatusOperational,
			Zeolite: domain.Zeolite{Remaining: 91, Days: 24, Absorption: 1890}},
		{ID: "tiruvottiyur", Name: "Tiruvottiyur Refinery", Area: "North Chennai", Lat: 13.1581, Lng: 80.3008, Status: domain.StatusWarning,
			Zeolite: domain.Zeolite{Remaining: 54, Days: 13, Absorption: 3250}},
		{ID: "sriperumbudur", Name: "Sriperumbudur SEZ", Area: "West Chennai", Lat: 12.9688, Lng: 79.9447, Status: domain.StatusOperational,
			Zeolite: domain.Zeolite{Remaining: 78, Days: 19, Absorption: 2475}},
	}
}
