package config

// NewWorkflowForTest creates a Workflow config for testing purposes
func NewWorkflowForTest(configPath string) *Workflow {
	return &Workflow{
		configPath: configPath,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken string) *Slack {
	return &Slack{
		botToken: botToken,
	}
}
