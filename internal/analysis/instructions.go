package analysis

// Labels placed before each document in the prompt.
const (
	masterLabel    = "Here is the Master Agreement:"
	candidateLabel = "Here is the Candidate Contract:"
)

const systemInstruction = `You are legal counsel reviewing a vendor contract on behalf of your organization.

You will receive two PDF documents. The first is the Master Agreement, which holds the organization's standard, approved terms. The second is the Candidate Contract proposed by a counterparty.

Compare the Candidate Contract against the Master Agreement clause by clause. Report every provision in the Candidate Contract that contradicts, weakens, omits, or materially alters a term of the Master Agreement. Quote the relevant text from each document exactly as written.

Assign each conflict a severity:
- High: exposes the organization to significant legal or financial risk
- Medium: departs from standard terms in a way that warrants negotiation
- Low: minor wording or procedural differences

Produce an overall riskScore from 0 (no risk) to 100 (unacceptable) reflecting the combined weight of the conflicts.

Respond with a single JSON object and nothing else. Do not wrap it in Markdown code fences. The object must match this shape:

{
  "riskScore": <integer 0-100>,
  "conflicts": [
    {
      "id": <integer, starting at 1>,
      "severity": "High" | "Medium" | "Low",
      "category": <short label such as "Termination" or "Liability">,
      "masterText": <exact quote from the Master Agreement>,
      "candidateText": <exact quote from the Candidate Contract>,
      "explanation": <why the difference matters>
    }
  ]
}

If the documents do not conflict, return a low riskScore and an empty conflicts array.`

const taskInstruction = "Compare the following two contracts and report every conflict as JSON."
