package config

import (
	"time"

	"github.com/skywatch-ops/skywatch/internal/domain/safety"
)

// defaultSensors returns the standard airport sensor table used when no
// sensor configuration is provided.
func defaultSensors() []SensorConfig {
	return []SensorConfig{
		{
			ID:   "temperature-terminal-01",
			Type: "temperature",
			Zone: "terminal-a",
			Unit: "°C",
			Bounds: safety.Bounds{
				Min:      10,
				Max:      30,
				Critical: 40,
			},
		},
		{
			ID:   "occupancy-security-01",
			Type: "occupancy",
			Zone: "security-checkpoint",
			Unit: "count",
			Bounds: safety.Bounds{
				Min:      0,
				Max:      85,
				Critical: 95,
			},
		},
		{
			ID:   "wind-runway-center",
			Type: "wind",
			Zone: "runway-09l",
			Unit: "kt",
			Bounds: safety.Bounds{
				Min:      0,
				Max:      35,
				Critical: 45,
			},
		},
		{
			ID:   "chemical-fuel-depot",
			Type: "air_quality",
			Zone: "fuel-depot",
			Unit: "AQI",
			Bounds: safety.Bounds{
				Min:      0,
				Max:      150,
				Critical: 170,
			},
		},
		{
			ID:   "motion-runway-09l",
			Type: "motion",
			Zone: "runway-09l",
			Unit: "boolean",
		},
	}
}

// DefaultCatalog returns the built-in scenario catalog: six training
// scenarios covering terminal and airside emergencies.
func DefaultCatalog() []safety.Scenario {
	return []safety.Scenario{
		{
			ID:            "unattended_baggage_terminal",
			Name:          "Unattended Baggage - Terminal",
			Description:   "Suspicious package left unattended in departure lounge",
			Category:      safety.CategoryTerminal,
			Severity:      safety.SeverityHigh,
			TotalDuration: 45 * time.Second,
			Events: []safety.ScenarioEvent{
				{
					Offset: 0,
					Type:   safety.EventDetection,
					Payload: safety.Detection{
						CameraID:   "cam-terminal-01",
						Class:      "unattended_object",
						Confidence: 0.89,
						Zone:       "departure-lounge",
					},
				},
				{
					Offset: 2 * time.Second,
					Type:   safety.EventAlertRequested,
					Payload: safety.AlertRequest{
						Kind:     "unattended_baggage",
						Severity: safety.SeverityHigh,
						Zone:     "departure-lounge",
						Message:  "SIMULATION: Unattended baggage detected in departure lounge - Gate 12 area",
						Source:   safety.SourceAgent,
						SourceID: "vision-ai",
					},
				},
				{
					Offset: 5 * time.Second,
					Type:   safety.EventIncidentRequested,
					Payload: safety.IncidentRequest{
						Title:       "Training Simulation: Unattended Baggage Alert",
						Description: "Black suitcase detected unattended for over 3 minutes in high-traffic area",
						Severity:    safety.SeverityHigh,
						Zone:        "departure-lounge",
					},
				},
			},
		},
		{
			ID:            "runway_incursion_critical",
			Name:          "Runway Incursion - Critical",
			Description:   "Unauthorized vehicle detected on active runway",
			Category:      safety.CategoryAirside,
			Severity:      safety.SeverityCritical,
			TotalDuration: 60 * time.Second,
			Events: []safety.ScenarioEvent{
				{
					Offset: 0,
					Type:   safety.EventSensorReading,
					Payload: safety.SensorReading{
						SensorID:   "motion-runway-09l",
						SensorType: "motion",
						Zone:       "runway-09l",
						Value:      1,
						Unit:       "boolean",
					},
				},
				{
					Offset: time.Second,
					Type:   safety.EventDetection,
					Payload: safety.Detection{
						CameraID:   "cam-runway-thermal",
						Class:      "unauthorized_vehicle",
						Confidence: 0.95,
						Zone:       "runway-09l",
					},
				},
				{
					Offset: 1500 * time.Millisecond,
					Type:   safety.EventAlertRequested,
					Payload: safety.AlertRequest{
						Kind:     "runway_incursion",
						Severity: safety.SeverityCritical,
						Zone:     "runway-09l",
						Message:  "SIMULATION: CRITICAL - Unauthorized vehicle detected on Runway 09L during active operations",
						Source:   safety.SourceAgent,
						SourceID: "runway-monitor",
					},
				},
				{
					Offset: 3 * time.Second,
					Type:   safety.EventIncidentRequested,
					Payload: safety.IncidentRequest{
						Title:       "Training Simulation: Runway Incursion Emergency",
						Description: "Service vehicle entered active runway without clearance during aircraft approach",
						Severity:    safety.SeverityCritical,
						Zone:        "runway-09l",
					},
				},
			},
		},
		{
			ID:            "security_breach_restricted",
			Name:          "Security Breach - Restricted Area",
			Description:   "Unauthorized person detected in secure airside area",
			Category:      safety.CategoryAirside,
			Severity:      safety.SeverityHigh,
			TotalDuration: 40 * time.Second,
			Events: []safety.ScenarioEvent{
				{
					Offset: 0,
					Type:   safety.EventDetection,
					Payload: safety.Detection{
						CameraID:   "cam-perimeter-01",
						Class:      "unauthorized_person",
						Confidence: 0.92,
						Zone:       "fuel-depot",
					},
				},
				{
					Offset: 2 * time.Second,
					Type:   safety.EventAlertRequested,
					Payload: safety.AlertRequest{
						Kind:     "security_breach",
						Severity: safety.SeverityHigh,
						Zone:     "fuel-depot",
						Message:  "SIMULATION: Unauthorized personnel detected in fuel storage restricted area",
						Source:   safety.SourceAgent,
						SourceID: "perimeter-security",
					},
				},
			},
		},
		{
			ID:            "crowd_surge_terminal",
			Name:          "Crowd Surge - Security Checkpoint",
			Description:   "Unusual crowd density causing safety concerns",
			Category:      safety.CategoryTerminal,
			Severity:      safety.SeverityMedium,
			TotalDuration: 35 * time.Second,
			Events: []safety.ScenarioEvent{
				{
					Offset: 0,
					Type:   safety.EventSensorReading,
					Payload: safety.SensorReading{
						SensorID:   "occupancy-security-01",
						SensorType: "occupancy",
						Zone:       "security-checkpoint",
						Value:      95,
						Unit:       "count",
					},
				},
				{
					Offset: 3 * time.Second,
					Type:   safety.EventAlertRequested,
					Payload: safety.AlertRequest{
						Kind:     "crowd_surge",
						Severity: safety.SeverityMedium,
						Zone:     "security-checkpoint",
						Message:  "SIMULATION: High crowd density detected at security checkpoint - 95% capacity",
						Source:   safety.SourceAgent,
						SourceID: "crowd-monitor",
					},
				},
			},
		},
		{
			ID:            "fuel_spill_emergency",
			Name:          "Fuel Spill Emergency",
			Description:   "Fuel leak detected during aircraft refueling",
			Category:      safety.CategoryAirside,
			Severity:      safety.SeverityCritical,
			TotalDuration: 90 * time.Second,
			Events: []safety.ScenarioEvent{
				{
					Offset: 0,
					Type:   safety.EventSensorReading,
					Payload: safety.SensorReading{
						SensorID:   "chemical-fuel-depot",
						SensorType: "air_quality",
						Zone:       "fuel-depot",
						Value:      180,
						Unit:       "AQI",
					},
				},
				{
					Offset: 2 * time.Second,
					Type:   safety.EventAlertRequested,
					Payload: safety.AlertRequest{
						Kind:     "fuel_spill",
						Severity: safety.SeverityCritical,
						Zone:     "fuel-depot",
						Message:  "SIMULATION: CRITICAL - Fuel spill detected during refueling operations at Gate 15",
						Source:   safety.SourceAgent,
						SourceID: "fuel-safety",
					},
				},
				{
					Offset: 5 * time.Second,
					Type:   safety.EventIncidentRequested,
					Payload: safety.IncidentRequest{
						Title:       "Training Simulation: Fuel Spill Emergency Response",
						Description: "Jet fuel leak detected during aircraft refueling - environmental hazard protocol activated",
						Severity:    safety.SeverityCritical,
						Zone:        "fuel-depot",
					},
				},
			},
		},
		{
			ID:            "weather_emergency_operations",
			Name:          "Severe Weather - Ground Operations",
			Description:   "Dangerous weather conditions affecting operations",
			Category:      safety.CategoryAirside,
			Severity:      safety.SeverityHigh,
			TotalDuration: 120 * time.Second,
			Events: []safety.ScenarioEvent{
				{
					Offset: 0,
					Type:   safety.EventSensorReading,
					Payload: safety.SensorReading{
						SensorID:   "wind-runway-center",
						SensorType: "wind",
						Zone:       "runway-09l",
						Value:      45,
						Unit:       "kt",
					},
				},
				{
					Offset: 3 * time.Second,
					Type:   safety.EventAlertRequested,
					Payload: safety.AlertRequest{
						Kind:     "weather_emergency",
						Severity: safety.SeverityHigh,
						Zone:     "runway-09l",
						Message:  "SIMULATION: Severe weather alert - Wind speeds exceeding safe operational limits (45kt)",
						Source:   safety.SourceAgent,
						SourceID: "weather-monitor",
					},
				},
			},
		},
	}
}
