package routing

import "fmt"

var systemPrompts = map[TaskType]string{
	TaskClaimTriage: `You are an expert insurance claims analyst specializing in claim triage and classification.
Analyze First Notice of Loss (FNOL) information and provide structured investigation guidance.
Focus on actionable insights that help claims handlers investigate efficiently.
Always consider coverage implications, liability factors and potential red flags.`,

	TaskQuestionGeneration: `You are an experienced claims investigator who develops interview questions.
Generate questions that uncover liability, assess damages and surface coverage issues.
Questions must be clear, non-leading and designed to elicit detailed answers.
Tailor the questions to the specific claim type.`,

	TaskCoverageAnalysis: `You are a coverage specialist with expertise in insurance policy analysis.
Analyze the claim against policy terms to identify coverage issues, exclusions and conditions.
Highlight potential coverage defenses and late notice issues.
Give actionable guidance and note that the analysis is for educational purposes only.`,

	TaskFileNotes: `You are a senior claims professional who writes claim file documentation.
Write clear, professional notes covering investigation activities, findings and next steps.
Notes must be concise, complete and suitable for regulatory review.`,

	TaskExtraction: `You are a data extraction specialist.
Extract structured information from unstructured text accurately and completely.
Return clean, well-organized JSON.
Flag any ambiguous or missing information.`,

	TaskGeneral: `You are an assistant specializing in insurance claims investigation.
Provide accurate, professional answers to claims-related questions.
Focus on practical guidance and note where professional judgment is required.`,
}

// DefaultSystemPrompt returns the built-in system prompt for a task type.
// Unknown task types get the general prompt.
func DefaultSystemPrompt(task TaskType) string {
	if p, ok := systemPrompts[task]; ok {
		return p
	}
	return systemPrompts[TaskGeneral]
}

var mockResponses = map[TaskType]string{
	TaskClaimTriage: `Based on the FNOL analysis, here is the claim triage:

**Claim Classification:** Auto Bodily Injury (BI)
**Confidence:** 0.92
**Severity:** Moderate to High
**Complexity:** Moderate

**Immediate Actions (24-48 hours):**
1. Contact the claimant for a recorded statement
2. Contact the insured for their account of the loss
3. Request the police report
4. Send medical authorization forms

**Key Concerns:**
- Multiple parties involved
- Injuries reported at the scene
- Possible comparative negligence

**Documents to Request:**
- Police report
- Medical records and bills
- Wage verification if lost wages are claimed
- Photos of the vehicles and scene`,

	TaskQuestionGeneration: `**Claimant Questions - Liability:**
1. Can you describe exactly what happened leading up to the accident?
2. What were you doing immediately before the impact?
3. Did you see the other vehicle before the collision?
4. What were the weather and road conditions?
5. Were there traffic signals or signs at the location?

**Claimant Questions - Damages:**
1. What injuries did you sustain?
2. Did you receive medical treatment at the scene?
3. Which medical providers have you seen since?
4. Are you still receiving treatment?
5. Have you missed work because of this accident?

**Coverage Red Flags:**
1. When did you first notice symptoms?
2. Have you had prior injuries to the same body parts?
3. Were you taking any medications before the accident?`,
}

// MockResponse returns the canned offline text for a task type.
func MockResponse(task TaskType) string {
	if text, ok := mockResponses[task]; ok {
		return text
	}
	return fmt.Sprintf("[MOCK RESPONSE]\n\nThis is a mock response for task type: %s\n\nIn production, this would be processed by an LLM provider.", task)
}
