// internal/app/store/records/tables.go
package records

// Collection names. Each console table maps to one collection.
const (
	TableTelcoProviders        = "telco_api_providers"
	TableSimSwapRequests       = "sim_swap_requests"
	TableNumberVerifications   = "number_verification_requests"
	TableDeviceLocations       = "device_location_requests"
	TableGeofences             = "geofences"
	TableQodSessions           = "qod_sessions"
	TableTelcoUsage            = "telco_api_usage"
	TableTrackedDevices        = "telco_tracked_devices"
	TableVoiceAgents           = "voice_agents"
	TableVoiceAgentCalls       = "voice_agent_calls"
	TableVoiceAgentTranscripts = "voice_agent_transcripts"
	TableVoiceAgentIntents     = "voice_agent_intents"
	TableVoiceAgentTools       = "voice_agent_tools"
	TableVoiceAgentConfigs     = "voice_agent_configurations"
	TableVoiceAgentAnalytics   = "voice_agent_analytics"
	TableLiveKitAgents         = "livekit_agents"
	TableLiveKitSessions       = "livekit_sessions"
	TableLiveKitJobs           = "livekit_jobs"
	TableLiveKitWorkers        = "livekit_workers"
	TableLiveKitMCPTools       = "livekit_mcp_tools"
	TableLiveKitTestCases      = "livekit_test_cases"
)

// Tables lists every console table in display order.
var Tables = []string{
	TableTelcoProviders,
	TableSimSwapRequests,
	TableNumberVerifications,
	TableDeviceLocations,
	TableGeofences,
	TableQodSessions,
	TableTelcoUsage,
	TableTrackedDevices,
	TableVoiceAgents,
	TableVoiceAgentCalls,
	TableVoiceAgentTranscripts,
	TableVoiceAgentIntents,
	TableVoiceAgentTools,
	TableVoiceAgentConfigs,
	TableVoiceAgentAnalytics,
	TableLiveKitAgents,
	TableLiveKitSessions,
	TableLiveKitJobs,
	TableLiveKitWorkers,
	TableLiveKitMCPTools,
	TableLiveKitTestCases,
}

// IsTable reports whether name is a known console table.
func IsTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
