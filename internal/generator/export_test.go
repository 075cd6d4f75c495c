package generator

var AgentConfigFor = (*AgentCompleter).agentConfig
