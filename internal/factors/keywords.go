package factors

// Keyword tables for the scoring rubric. All matching is case-insensitive
// substring matching against normalized text. Count-based ladders are
// insensitive to entry order; the role credibility rule table is not.

// credibleRoles are high-credibility security/biotech roles.
var credibleRoles = []string{
	"ciso", "chief information security officer", "security officer",
	"security analyst", "security engineer", "cybersecurity",
	"biotech", "biopharmaceutical", "pharmaceutical", "genomic",
	"research", "lab manager", "principal investigator", "pi",
	"it security", "infosec", "information security", "compliance",
	"risk management", "incident response", "threat intelligence",
}

// studentRoles indicate trainee-level submitters.
var studentRoles = []string{
	"student", "undergraduate", "graduate student", "phd student",
	"intern", "internship", "trainee", "apprentice",
}

// nonFieldRoles are occupations clearly outside security, biotech, and IT.
var nonFieldRoles = []string{
	"teacher", "professor", "educator", "artist", "musician", "writer",
	"retail", "cashier", "waiter", "waitress", "chef", "cook",
	"driver", "delivery", "sales", "marketing", "accountant", "lawyer",
	"doctor", "nurse", "dentist", "veterinarian", "therapist", "counselor",
}

// orgIndicators are organizational-affiliation cues.
var orgIndicators = []string{
	"at ", "inc", "corp", "labs", "research", "university", "hospital",
	"institute", "company",
}

// professionalTitles are professional-title cues.
var professionalTitles = []string{
	"director", "manager", "lead", "senior", "chief", "head", "engineer",
	"analyst", "specialist", "coordinator", "administrator",
}

// techIndicators are IT/tech role cues.
var techIndicators = []string{
	"it", "tech", "software", "developer", "programmer", "system",
	"network", "database",
}

// severityKeywords indicate a high-severity security concern.
var severityKeywords = []string{
	"breach", "compromise", "exploit", "vulnerability", "attack",
	"malware", "ransomware", "phishing", "unauthorized access",
	"data exfiltration", "suspicious activity", "indicators of compromise",
	"ioc", "apt", "advanced persistent threat", "zero-day",
}

// technicalTerms indicate accurate use of security terminology.
var technicalTerms = []string{
	"cve", "cvss", "mitre", "att&ck", "tactics", "techniques",
	"network traffic", "log analysis", "siem", "edr", "ids", "ips",
	"firewall", "endpoint", "authentication", "authorization",
	"encryption", "certificate", "ssl", "tls", "dns", "ip address",
}

// bioKeywords indicate biological/biotech context.
var bioKeywords = []string{
	"genomic", "dna", "rna", "protein", "sequencing", "laboratory",
	"research data", "clinical trial", "patient data", "hipaa",
	"biosecurity", "biosafety", "pathogen", "sample", "culture",
	"biotech", "pharmaceutical", "fda", "regulatory",
}

// legitimateUrgency phrases signal genuine time pressure.
var legitimateUrgency = []string{
	"critical", "urgent", "immediate", "asap", "time-sensitive",
}

// suspiciousUrgency phrases are common in scams.
var suspiciousUrgency = []string{
	"act now", "limited time", "expires soon", "click immediately",
}
