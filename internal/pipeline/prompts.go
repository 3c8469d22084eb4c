package pipeline

// System instructions for the three LLM-backed stages.
const (
	extractionSystemMessage   = "You are an expert business data extraction analyst. Extract structured business information from search results and web data."
	intelligenceSystemMessage = "You are an expert digital marketing analyst specialized in business intelligence and investment readiness assessment."
	outreachSystemMessage     = "You are an expert copywriter specializing in personalized B2B outreach for digital marketing services."
)

// extractionPrompt instructs the model to distill raw search data into the
// canonical business record. The embedded schema is a contract: the response
// parser backfills the five contact fields but validates nothing else.
// Placeholders: business name, search data JSON.
const extractionPrompt = `Extract comprehensive business information from the following search results and data:

Business Name: %s
Search Data: %s

Please extract and return ONLY a JSON object with this exact structure:
{
    "business_name": "extracted business name or provided name",
    "email": "extracted email address or null",
    "phone": "extracted phone number or null",
    "website": "extracted website URL or null",
    "address": "extracted physical address or null",
    "social_media": {
        "linkedin": "linkedin url or null",
        "facebook": "facebook url or null",
        "instagram": "instagram url or null",
        "twitter": "twitter url or null"
    },
    "description": "business description or services offered",
    "services": ["list", "of", "services", "offered"],
    "business_hours": "operating hours if found",
    "years_in_business": "how long in business if mentioned",
    "confidence_score": 0.85
}

IMPORTANT:
- If information is not found, use null values (not "Not found" or empty strings)
- Extract contact information carefully from snippets and search results
- Look for patterns like email addresses, phone numbers, website URLs
- Include confidence score based on data quality (0.0 to 1.0)
- Return ONLY the JSON object, no additional text`

// intelligencePrompt asks for the multi-section business-intelligence
// verdict. Placeholders: business data JSON, website analysis JSON.
const intelligencePrompt = `Analyze the following business data and website analysis to provide comprehensive business intelligence:

BUSINESS DATA:
%s

WEBSITE ANALYSIS:
%s

Please provide a comprehensive analysis in JSON format with the following structure:
{
    "business_intent_analysis": {
        "digital_readiness_score": 0.85,
        "growth_signals": ["list of positive growth indicators"],
        "risk_factors": ["list of potential risks"],
        "market_positioning": "description of market position",
        "competitive_advantage": "identified competitive advantages"
    },
    "digital_marketing_signals": {
        "current_marketing_maturity": "basic/intermediate/advanced",
        "website_conversion_potential": 0.75,
        "seo_optimization_level": "poor/fair/good/excellent",
        "social_media_presence": "weak/moderate/strong",
        "content_marketing_readiness": 0.60,
        "paid_advertising_readiness": 0.80
    },
    "investment_recommendation": {
        "overall_score": 0.78,
        "recommended_investment_level": "low/medium/high",
        "priority_areas": ["SEO", "Conversion Optimization", "Content Marketing"],
        "expected_roi_timeline": "3-6 months",
        "budget_recommendation": {
            "monthly_minimum": 2000,
            "monthly_optimal": 5000,
            "setup_costs": 3000
        },
        "success_probability": 0.82
    },
    "sentiment_analysis": {
        "brand_perception": "positive/neutral/negative",
        "customer_engagement_signals": 0.65,
        "online_reputation_score": 0.70,
        "trust_indicators": ["list of trust signals found"],
        "credibility_factors": ["professional website", "social proof", "testimonials"]
    },
    "actionable_recommendations": [
        {
            "category": "SEO",
            "priority": "high",
            "action": "specific action to take",
            "expected_impact": "description of expected outcome",
            "timeline": "2-4 weeks"
        }
    ]
}

Base your analysis on:
1. Website quality and functionality
2. Current digital marketing setup
3. Technology infrastructure
4. Business information completeness
5. Market indicators and competitive positioning
6. Conversion tracking and analytics setup
7. Content quality and marketing automation readiness

Provide realistic scores and actionable insights. Return ONLY the JSON object.`

// outreachPrompt asks for a personalized outreach email draft built from the
// intelligence verdict. Placeholders: business name, analysis JSON.
const outreachPrompt = `Create a personalized outreach email based on the comprehensive business analysis:

BUSINESS NAME: %s
BUSINESS ANALYSIS: %s

Generate a professional outreach email in JSON format:
{
    "subject_line": "Personalized subject line based on analysis findings",
    "opening_line": "Personalized greeting and hook based on specific findings",
    "body_paragraphs": [
        "First paragraph - personal connection and credibility",
        "Second paragraph - specific insights about their business",
        "Third paragraph - value proposition and solution",
        "Fourth paragraph - clear call to action"
    ],
    "call_to_action": "Specific next step request",
    "ps_line": "Additional value or urgency",
    "personalization_elements": [
        "List of specific personalization factors used"
    ],
    "tone": "professional/friendly/consultative",
    "key_insights_mentioned": [
        "Specific insights from analysis that were highlighted"
    ]
}

Guidelines:
1. Make it highly personalized based on their specific analysis results
2. Mention 2-3 specific findings from the website/business analysis
3. Focus on value and results, not features
4. Keep it concise but comprehensive
5. Include social proof or credibility indicators
6. Create urgency without being pushy
7. Make the subject line compelling and curiosity-driven
8. Ensure the tone matches the business type and sophistication level

Return ONLY the JSON object.`
