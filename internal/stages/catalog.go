package stages

// Stage identifiers of the built-in catalog.
const (
	APIInput       = "api_input"
	UserStories    = "user_stories"
	DesignDocs     = "design_docs"
	CodeGeneration = "code_generation"
	CodeReview     = "code_review"
	SecurityReview = "security_review"
	TestCases      = "test_cases"
	QATesting      = "qa_testing"
	Deployment     = "deployment"
	Monitoring     = "monitoring"
)

const userStoriesTemplate = `Generate comprehensive user stories for: {prompt}. Include acceptance criteria.`

const designDocsTemplate = `Create functional and technical design documents for: {prompt}
Functional:
- User flows
- Feature specs

Technical:
- Architecture
- Tech stack
- Data models`

const codeGenerationTemplate = `Generate production-ready code for: {prompt}. Include error handling and docs.`

const codeReviewTemplate = `Perform a code review of the implementation for: {prompt}. Identify defects, maintainability issues, and concrete improvements.`

const securityReviewTemplate = `Perform a security review for: {prompt}. Cover threat model, authentication, data protection, and dependency risks with mitigations.`

const testCasesTemplate = `Create test cases for: {prompt}. Include positive/negative scenarios.`

const qaTestingTemplate = `Create a QA testing plan for: {prompt}. Include test environments, regression scope, and exit criteria.`

const deploymentTemplate = `Create deployment plan for: {prompt}. Include rollback strategy.`

const monitoringTemplate = `Create a monitoring and observability plan for: {prompt}. Include key metrics, alert thresholds, dashboards, and incident response.`

var catalog = []Stage{
	{ID: APIInput, Label: "AI Powered Automation"},
	{ID: UserStories, Label: "User Stories", Template: userStoriesTemplate},
	{ID: DesignDocs, Label: "Design Docs", Template: designDocsTemplate},
	{ID: CodeGeneration, Label: "Code Generation", Template: codeGenerationTemplate},
	{ID: CodeReview, Label: "Code Review", Template: codeReviewTemplate},
	{ID: SecurityReview, Label: "Security Review", Template: securityReviewTemplate},
	{ID: TestCases, Label: "Test Cases", Template: testCasesTemplate},
	{ID: QATesting, Label: "QA Testing", Template: qaTestingTemplate},
	{ID: Deployment, Label: "Deployment", Template: deploymentTemplate},
	{ID: Monitoring, Label: "Monitoring", Template: monitoringTemplate},
}
