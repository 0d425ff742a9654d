package settings

// Element and attribute names of the config file.
const (
	AttrEnabled = "enabled"

	NodeIndexing           = "Indexing"
	NodeDefaultTitleField  = "DefaultTitleField"
	NodeIndexingActiveKey  = "IndexingActiveKey"
	NodeDisallowedAliases  = "DisallowedAliases"
	NodeContentTypes       = "ContentTypes"
	NodeProperties         = "Properties"
	NodeXPathsToRemove     = "XpathsToRemove"
	NodeExamineFieldNames  = "ExamineFieldNames"
	NodeFullTextContent    = "FullTextContent"
	NodeFullTextPath       = "FullTextPath"
	NodeFullTextLastCached = "FullTextLastCached"
	NodeCacheExpiryRules   = "CacheExpiryRules"
	NodeAdd                = "add"

	AttrExpires          = "expires"
	AttrContentTypeAlias = "contentTypeAlias"
	AttrXPath            = "xPath"
)
